package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/platewatch/api/config"
	apperrors "github.com/platewatch/api/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = 10

// TokenPayload is the claims a token carries.
type TokenPayload struct {
	UserID uint
	Email  string
}

// TokenService signs and verifies the three token families. Each family has
// its own secret so rotating or leaking one never affects the others.
type TokenService struct {
	accessSecret  string
	refreshSecret string
	resetSecret   string

	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		resetSecret:   cfg.ResetSecret,
		accessTTL:     cfg.AccessDuration,
		refreshTTL:    cfg.RefreshDuration,
		resetTTL:      cfg.ResetDuration,
	}
}

// GenerateAccessToken signs a short-lived credential for a single request
// window.
func (s *TokenService) GenerateAccessToken(userID uint, email string) (string, error) {
	return s.sign(userID, email, s.accessSecret, s.accessTTL)
}

// GenerateRefreshToken signs the long-lived credential exchanged for new
// token pairs.
func (s *TokenService) GenerateRefreshToken(userID uint, email string) (string, error) {
	return s.sign(userID, email, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) sign(userID uint, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// GenerateResetToken signs a single-purpose password-reset credential that
// embeds only the email.
func (s *TokenService) GenerateResetToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.resetTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.resetSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}

	return tokenString, nil
}

// VerifyAccessToken validates an access token and returns its payload.
func (s *TokenService) VerifyAccessToken(tokenString string) (*TokenPayload, error) {
	claims, err := s.verify(tokenString, s.accessSecret)
	if err != nil {
		return nil, err
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &TokenPayload{UserID: uint(userIDFloat), Email: email}, nil
}

// VerifyRefreshToken validates a refresh token's signature and expiry and
// returns its payload.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*TokenPayload, error) {
	claims, err := s.verify(tokenString, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &TokenPayload{UserID: uint(userIDFloat), Email: email}, nil
}

// VerifyResetToken validates a reset token and returns the embedded email.
func (s *TokenService) VerifyResetToken(tokenString string) (string, error) {
	claims, err := s.verify(tokenString, s.resetSecret)
	if err != nil {
		return "", err
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", apperrors.ErrInvalidToken
	}

	return email, nil
}

func (s *TokenService) verify(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.WrapError(apperrors.ErrTokenExpired, err)
		}
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// HashRefreshToken hashes a refresh token for storage. The token is digested
// first because bcrypt only consumes 72 bytes of input.
func (s *TokenService) HashRefreshToken(refreshToken string) (string, error) {
	digest := digestToken(refreshToken)
	hash, err := bcrypt.GenerateFromPassword([]byte(digest), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash refresh token: %w", err)
	}
	return string(hash), nil
}

// CompareRefreshToken verifies a refresh token against its stored hash.
func (s *TokenService) CompareRefreshToken(refreshToken, storedHash string) bool {
	digest := digestToken(refreshToken)
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(digest)) == nil
}

func digestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
