package oauth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Profile is the provider-neutral identity a verifier extracts. Email may be
// empty; callers decide whether that is fatal.
type Profile struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
}

// Verifier validates a provider credential and returns the profile behind it.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Profile, error)
}

// GoogleVerifier validates Google ID tokens against the configured OAuth
// client ID.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

func (g *GoogleVerifier) Verify(ctx context.Context, token string) (*Profile, error) {
	payload, err := idtoken.Validate(ctx, token, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("google id token validation failed: %w", err)
	}

	profile := &Profile{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		profile.Email = email
	}
	if given, ok := payload.Claims["given_name"].(string); ok {
		profile.FirstName = given
	}
	if family, ok := payload.Claims["family_name"].(string); ok {
		profile.LastName = family
	}

	return profile, nil
}
