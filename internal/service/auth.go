package service

import (
	"context"
	"errors"
	"strings"

	"github.com/platewatch/api/internal/dto"
	apperrors "github.com/platewatch/api/internal/errors"
	"github.com/platewatch/api/internal/model"
	"github.com/platewatch/api/internal/oauth"
	"github.com/platewatch/api/pkg/logger"
	"github.com/platewatch/api/pkg/mailer"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore is the persistence surface the auth and profile layers depend on.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetProfile(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	CreateWithCar(ctx context.Context, user *model.User, car *model.Car) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, id uint) error
	UpdateRefreshTokenHash(ctx context.Context, id uint, hash *string) error
}

// AuthService resolves the three identity paths (password, Google, Facebook)
// into one local user and drives the session lifecycle.
type AuthService struct {
	users    UserStore
	cars     CarStore
	tokens   *TokenService
	google   oauth.Verifier
	facebook oauth.Verifier
	mail     mailer.Mailer

	resetLinkURL string
}

func NewAuthService(
	users UserStore,
	cars CarStore,
	tokens *TokenService,
	google oauth.Verifier,
	facebook oauth.Verifier,
	mail mailer.Mailer,
	resetLinkURL string,
) *AuthService {
	return &AuthService{
		users:        users,
		cars:         cars,
		tokens:       tokens,
		google:       google,
		facebook:     facebook,
		mail:         mail,
		resetLinkURL: resetLinkURL,
	}
}

// Signup creates a local account, optionally registering a first car in the
// same transaction, and opens a session.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)

	// Race-checked here, storage-constraint-checked below.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		logger.GetLogger().Warn("Signup rejected: email in use",
			zap.String("email", email),
		)
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	var car *model.Car
	if req.Car != nil {
		plate := strings.TrimSpace(req.Car.LicensePlate)
		if _, err := s.cars.GetByPlate(ctx, plate); err == nil {
			logger.GetLogger().Warn("Signup rejected: plate already registered",
				zap.String("email", email),
				zap.String("license_plate", plate),
			)
			return nil, apperrors.ErrPlateExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		car = &model.Car{
			Brand:        strings.TrimSpace(req.Car.Brand),
			CarModel:     strings.TrimSpace(req.Car.Model),
			LicensePlate: plate,
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	if car != nil {
		err = s.users.CreateWithCar(ctx, user, car)
	} else {
		err = s.users.Create(ctx, user)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent write won the race; figure out which constraint hit.
			if car != nil {
				if _, lookupErr := s.users.GetByEmail(ctx, email); lookupErr == nil {
					return nil, apperrors.ErrEmailExists
				}
				return nil, apperrors.ErrPlateExists
			}
			return nil, apperrors.ErrEmailExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(email, "signup", true,
		zap.Uint("user_id", user.ID),
		zap.Bool("with_car", car != nil),
	)

	return s.openSession(ctx, user)
}

// Login authenticates the password path.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.LogAuth(email, "login", false)
			return nil, apperrors.ErrUserNotFoundForAuth
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Federated-only accounts have no password hash and cannot use this path.
	if user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		logger.LogAuth(email, "login", false,
			zap.Uint("user_id", user.ID),
		)
		return nil, apperrors.ErrInvalidCredentials
	}

	logger.LogAuth(email, "login", true,
		zap.Uint("user_id", user.ID),
	)

	return s.openSession(ctx, user)
}

// LoginWithGoogle authenticates a Google ID token.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	return s.loginFederated(ctx, s.google, idToken, "google")
}

// LoginWithFacebook authenticates a Facebook access token.
func (s *AuthService) LoginWithFacebook(ctx context.Context, accessToken string) (*dto.AuthResponse, error) {
	return s.loginFederated(ctx, s.facebook, accessToken, "facebook")
}

func (s *AuthService) loginFederated(ctx context.Context, verifier oauth.Verifier, token, provider string) (*dto.AuthResponse, error) {
	profile, err := verifier.Verify(ctx, token)
	if err != nil {
		logger.GetLogger().Warn("Federated token verification failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	if profile.Email == "" {
		logger.GetLogger().Warn("Federated login without email",
			zap.String("provider", provider),
			zap.String("subject", profile.Subject),
		)
		return nil, apperrors.ErrMissingEmail
	}

	user, err := s.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}

		// First federated login creates the account. The empty password
		// hash marks it federated-only.
		user = &model.User{
			Email:     profile.Email,
			Password:  "",
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Concurrent first login; use the row that won.
				user, err = s.users.GetByEmail(ctx, profile.Email)
				if err != nil {
					return nil, apperrors.WrapError(apperrors.ErrInternal, err)
				}
			} else {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
		}
	}

	logger.LogAuth(profile.Email, "login_"+provider, true,
		zap.Uint("user_id", user.ID),
	)

	return s.openSession(ctx, user)
}

// openSession issues a fresh token pair and stores the refresh-token hash,
// replacing any previous session.
func (s *AuthService) openSession(ctx context.Context, user *model.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshHash, err := s.tokens.HashRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdateRefreshTokenHash(ctx, user.ID, &refreshHash); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Non-fatal; the session is already open.
		logger.GetLogger().Warn("Failed to update last login",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         publicUser(user),
	}, nil
}

// Refresh rotates the session: the presented refresh token must hash-match
// the stored one, and a successful call replaces it. There is exactly one
// active refresh token per user.
func (s *AuthService) Refresh(ctx context.Context, userID uint, refreshToken string) (*dto.RefreshResponse, error) {
	// Signature and expiry first; the hash compare alone would let a stolen
	// token from a never-rotating session outlive its 7-day lifetime.
	if _, err := s.tokens.VerifyRefreshToken(refreshToken); err != nil {
		logger.GetLogger().Warn("Refresh token failed verification",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoStoredToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.RefreshTokenHash == nil {
		logger.GetLogger().Warn("Refresh without active session",
			zap.Uint("user_id", userID),
		)
		return nil, apperrors.ErrNoStoredToken
	}

	if !s.tokens.CompareRefreshToken(refreshToken, *user.RefreshTokenHash) {
		logger.GetLogger().Warn("Refresh token mismatch",
			zap.Uint("user_id", userID),
		)
		return nil, apperrors.ErrRefreshMismatch
	}

	newAccess, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	newRefresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	newHash, err := s.tokens.HashRefreshToken(newRefresh)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdateRefreshTokenHash(ctx, user.ID, &newHash); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.GetLogger().Info("Session refreshed",
		zap.Uint("user_id", user.ID),
	)

	return &dto.RefreshResponse{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
	}, nil
}

// Logout clears the stored refresh-token hash unconditionally.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.users.UpdateRefreshTokenHash(ctx, userID, nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.GetLogger().Info("User logged out",
		zap.Uint("user_id", userID),
	)

	return nil
}

// ForgotPassword mails a reset link carrying a reset-secret-signed token.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFoundForAuth
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token, err := s.tokens.GenerateResetToken(email)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resetURL := s.resetLinkURL + "?token=" + token
	if err := s.mail.SendPasswordReset(email, user.FirstName, resetURL); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.GetLogger().Info("Password reset mail sent",
		zap.String("email", email),
	)

	return nil
}

// ResetPassword decodes a reset token and overwrites the password hash. The
// active refresh session, if any, is left intact.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	email, err := s.tokens.VerifyResetToken(token)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			return apperrors.WrapError(apperrors.ErrResetExpired, err)
		}
		return apperrors.WrapError(apperrors.ErrBadResetToken, err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Account deleted since the token was issued.
			return apperrors.ErrUserNotFoundForAuth
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(email, "reset_password", true,
		zap.Uint("user_id", user.ID),
	)

	return nil
}

func publicUser(user *model.User) dto.UserPublic {
	return dto.UserPublic{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
