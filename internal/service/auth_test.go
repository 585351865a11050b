package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/platewatch/api/config"
	"github.com/platewatch/api/internal/dto"
	apperrors "github.com/platewatch/api/internal/errors"
	"github.com/platewatch/api/internal/oauth"
)

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeCarStore, *fakeMailer) {
	users := newFakeUserStore()
	cars := newFakeCarStore()
	users.cars = cars
	mail := &fakeMailer{}
	svc := NewAuthService(
		users,
		cars,
		newTestTokenService(),
		&fakeVerifier{err: errors.New("not configured")},
		&fakeVerifier{err: errors.New("not configured")},
		mail,
		"https://app.example.com/reset-password",
	)
	return svc, users, cars, mail
}

func signupRequest() *dto.SignupRequest {
	return &dto.SignupRequest{
		Email:     "driver@example.com",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Driver",
	}
}

func TestAuthService_SignupThenLogin(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, signupRequest())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if created.AccessToken == "" || created.RefreshToken == "" {
		t.Fatal("Expected a token pair on signup")
	}
	if created.User.Email != "driver@example.com" {
		t.Errorf("Expected signup to echo the user, got %+v", created.User)
	}

	session, err := svc.Login(ctx, "driver@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.User.ID != created.User.ID {
		t.Errorf("Expected same user across signup and login")
	}
}

func TestAuthService_SignupWithCar(t *testing.T) {
	svc, _, cars, _ := newTestAuthService()
	ctx := context.Background()

	req := signupRequest()
	req.Car = &dto.SignupCar{Brand: "Toyota", Model: "Corolla", LicensePlate: "B 1234 XY"}

	session, err := svc.Signup(ctx, req)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	owned, err := cars.ListByOwner(ctx, session.User.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(owned) != 1 || owned[0].LicensePlate != "B 1234 XY" {
		t.Errorf("Expected one registered car, got %+v", owned)
	}
}

func TestAuthService_SignupConflicts(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	first := signupRequest()
	first.Car = &dto.SignupCar{Brand: "Honda", Model: "Jazz", LicensePlate: "D 1 AA"}
	if _, err := svc.Signup(ctx, first); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	tests := []struct {
		name string
		req  *dto.SignupRequest
		want error
	}{
		{
			name: "duplicate email",
			req:  signupRequest(),
			want: apperrors.ErrEmailExists,
		},
		{
			name: "duplicate plate",
			req: &dto.SignupRequest{
				Email:    "second@example.com",
				Password: "p4ssw0rd-two",
				Car:      &dto.SignupCar{Brand: "Honda", Model: "Jazz", LicensePlate: "D 1 AA"},
			},
			want: apperrors.ErrPlateExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, signupRequest()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"unknown email", "nobody@example.com", "whatever", apperrors.ErrUserNotFoundForAuth},
		{"wrong password", "driver@example.com", "wrong", apperrors.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthService_FederatedFirstLoginCreatesUser(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	svc.google = &fakeVerifier{profile: &oauth.Profile{
		Subject:   "google-sub-1",
		Email:     "fed@example.com",
		FirstName: "Fed",
		LastName:  "Erated",
	}}
	ctx := context.Background()

	session, err := svc.LoginWithGoogle(ctx, "some-id-token")
	if err != nil {
		t.Fatalf("LoginWithGoogle: %v", err)
	}

	user, err := users.GetByEmail(ctx, "fed@example.com")
	if err != nil {
		t.Fatalf("Expected user to be created: %v", err)
	}
	if user.Password != "" {
		t.Error("Expected federated account to have no password hash")
	}
	if session.User.ID != user.ID {
		t.Error("Expected session for the created user")
	}

	// Federated-only accounts cannot use the password path.
	if _, err := svc.Login(ctx, "fed@example.com", ""); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}

	// Second login reuses the row.
	again, err := svc.LoginWithGoogle(ctx, "some-id-token")
	if err != nil {
		t.Fatalf("LoginWithGoogle again: %v", err)
	}
	if again.User.ID != user.ID {
		t.Error("Expected second federated login to reuse the account")
	}
}

func TestAuthService_FederatedWithoutEmailCreatesNothing(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	svc.facebook = &fakeVerifier{profile: &oauth.Profile{Subject: "fb-1"}}
	ctx := context.Background()

	if _, err := svc.LoginWithFacebook(ctx, "token"); !errors.Is(err, apperrors.ErrMissingEmail) {
		t.Fatalf("Expected ErrMissingEmail, got %v", err)
	}
	if len(users.users) != 0 {
		t.Error("Expected no account to be created")
	}
}

func TestAuthService_FederatedBadToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	svc.google = &fakeVerifier{err: errors.New("signature mismatch")}

	if _, err := svc.LoginWithGoogle(context.Background(), "bad"); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_RefreshRotation(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Signup(ctx, signupRequest())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	userID := session.User.ID

	rotated, err := svc.Refresh(ctx, userID, session.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.RefreshToken == session.RefreshToken {
		t.Error("Expected rotation to mint a new refresh token")
	}

	// The replaced token is dead.
	if _, err := svc.Refresh(ctx, userID, session.RefreshToken); !errors.Is(err, apperrors.ErrRefreshMismatch) {
		t.Errorf("Expected ErrRefreshMismatch for the old token, got %v", err)
	}

	// The rotated token still works.
	if _, err := svc.Refresh(ctx, userID, rotated.RefreshToken); err != nil {
		t.Errorf("Expected rotated token to refresh, got %v", err)
	}
}

func TestAuthService_RefreshRejectsExpiredToken(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(
		users,
		newFakeCarStore(),
		NewTokenService(config.JWTConfig{
			AccessSecret:    "access-secret",
			RefreshSecret:   "refresh-secret",
			AccessDuration:  15 * time.Minute,
			RefreshDuration: -time.Minute,
		}),
		&fakeVerifier{err: errors.New("not configured")},
		&fakeVerifier{err: errors.New("not configured")},
		&fakeMailer{},
		"https://app.example.com/reset-password",
	)
	ctx := context.Background()

	session, err := svc.Signup(ctx, signupRequest())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	// The stored hash still matches, but the token itself is past its exp.
	if _, err := svc.Refresh(ctx, session.User.ID, session.RefreshToken); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthService_RefreshRejectsForeignToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Signup(ctx, signupRequest())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, err := svc.Refresh(ctx, session.User.ID, "not-a-signed-token"); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_RefreshWithoutSession(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Signup(ctx, signupRequest())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if err := svc.Logout(ctx, session.User.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := svc.Refresh(ctx, session.User.ID, session.RefreshToken); !errors.Is(err, apperrors.ErrNoStoredToken) {
		t.Errorf("Expected ErrNoStoredToken after logout, got %v", err)
	}

	orphan, err := svc.tokens.GenerateRefreshToken(999, "ghost@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if _, err := svc.Refresh(ctx, 999, orphan); !errors.Is(err, apperrors.ErrNoStoredToken) {
		t.Errorf("Expected ErrNoStoredToken for unknown user, got %v", err)
	}
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	svc, _, _, mail := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, signupRequest()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if err := svc.ForgotPassword(ctx, "driver@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("Expected one reset mail, got %d", len(mail.sent))
	}
	if mail.sent[0].name != "Ada" {
		t.Errorf("Expected the mail to carry the first name, got %q", mail.sent[0].name)
	}
	if !strings.HasPrefix(mail.sent[0].url, "https://app.example.com/reset-password?token=") {
		t.Fatalf("Unexpected reset link %q", mail.sent[0].url)
	}

	token := strings.TrimPrefix(mail.sent[0].url, "https://app.example.com/reset-password?token=")
	if err := svc.ResetPassword(ctx, token, "brand-new-pass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := svc.Login(ctx, "driver@example.com", "correct-horse"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Expected old password to be rejected, got %v", err)
	}
	if _, err := svc.Login(ctx, "driver@example.com", "brand-new-pass"); err != nil {
		t.Errorf("Expected new password to work, got %v", err)
	}
}

func TestAuthService_PasswordResetRejections(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "nobody@example.com"); !errors.Is(err, apperrors.ErrUserNotFoundForAuth) {
		t.Errorf("Expected ErrUserNotFoundForAuth, got %v", err)
	}

	if err := svc.ResetPassword(ctx, "not-a-jwt", "whatever-pass"); !errors.Is(err, apperrors.ErrBadResetToken) {
		t.Errorf("Expected ErrBadResetToken, got %v", err)
	}
}
