package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newGraphVerifier(graphURL, appSecret string) *FacebookVerifier {
	return &FacebookVerifier{
		httpClient: &http.Client{Timeout: time.Second},
		graphURL:   graphURL,
		appSecret:  appSecret,
	}
}

func TestFacebookVerifier_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("access_token"); got != "user-token" {
			t.Errorf("Expected access_token user-token, got %q", got)
		}
		if want := appSecretProof("user-token", "app-secret"); r.URL.Query().Get("appsecret_proof") != want {
			t.Errorf("Expected appsecret_proof %q, got %q", want, r.URL.Query().Get("appsecret_proof"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"fb-123","email":"fb@example.com","first_name":"Face","last_name":"Book"}`))
	}))
	defer srv.Close()

	verifier := newGraphVerifier(srv.URL, "app-secret")
	profile, err := verifier.Verify(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if profile.Subject != "fb-123" || profile.Email != "fb@example.com" {
		t.Errorf("Unexpected profile %+v", profile)
	}
	if profile.FirstName != "Face" || profile.LastName != "Book" {
		t.Errorf("Expected names to be extracted, got %+v", profile)
	}
}

func TestFacebookVerifier_NoProofWithoutSecret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("appsecret_proof") {
			t.Error("Expected no appsecret_proof when no secret is configured")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"fb-123"}`))
	}))
	defer srv.Close()

	verifier := newGraphVerifier(srv.URL, "")
	if _, err := verifier.Verify(context.Background(), "user-token"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestFacebookVerifier_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190}}`))
	}))
	defer srv.Close()

	verifier := newGraphVerifier(srv.URL, "app-secret")
	if _, err := verifier.Verify(context.Background(), "stolen"); err == nil {
		t.Fatal("Expected an error for a rejected token")
	}
}
