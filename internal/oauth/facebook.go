package oauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const facebookGraphURL = "https://graph.facebook.com/v19.0/me"

// FacebookVerifier resolves a Facebook access token to a profile through the
// Graph API.
type FacebookVerifier struct {
	httpClient *http.Client
	graphURL   string
	appSecret  string
}

func NewFacebookVerifier(appSecret string) *FacebookVerifier {
	return &FacebookVerifier{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		graphURL:   facebookGraphURL,
		appSecret:  appSecret,
	}
}

type facebookProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Error     *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (f *FacebookVerifier) Verify(ctx context.Context, token string) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("fields", "id,email,first_name,last_name")
	query.Set("access_token", token)
	if f.appSecret != "" {
		// Graph apps with "Require App Secret" enabled reject calls
		// that carry a bare user token.
		query.Set("appsecret_proof", appSecretProof(token, f.appSecret))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.graphURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read graph response: %w", err)
	}

	var profile facebookProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode graph response: %w", err)
	}

	if profile.Error != nil {
		return nil, fmt.Errorf("facebook rejected token: %s (code %d)",
			profile.Error.Message, profile.Error.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph request returned status %d", resp.StatusCode)
	}

	return &Profile{
		Subject:   profile.ID,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
	}, nil
}

func appSecretProof(token, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
