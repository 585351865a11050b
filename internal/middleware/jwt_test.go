package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/platewatch/api/config"
	"github.com/platewatch/api/internal/constants"
	"github.com/platewatch/api/internal/service"
	"github.com/gin-gonic/gin"
)

func newTestRouter(tokens *service.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", NewJWTMiddleware(tokens).RequireAuth(), func(c *gin.Context) {
		userID, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{
			"userId": userID,
			"email":  c.GetString(constants.CtxUserEmail),
		})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	tokens := service.NewTokenService(config.JWTConfig{
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		AccessDuration: 15 * time.Minute,
	})
	router := newTestRouter(tokens)

	validToken, err := tokens.GenerateAccessToken(5, "mw@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	refreshToken, err := tokens.GenerateRefreshToken(5, "mw@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"refresh token rejected", "Bearer " + refreshToken, http.StatusUnauthorized},
		{"valid token", "Bearer " + validToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d (body %s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestExpiredAccessToken(t *testing.T) {
	tokens := service.NewTokenService(config.JWTConfig{
		AccessSecret:   "access-secret",
		AccessDuration: -time.Minute,
	})
	router := newTestRouter(tokens)

	expired, err := tokens.GenerateAccessToken(5, "mw@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for expired token, got %d", rec.Code)
	}
}
