package mailer

import (
	"bytes"
	"strings"
	"testing"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

func renderReset(t *testing.T, name, resetURL string) string {
	t.Helper()
	tmpl, err := template.New("reset").Funcs(sprig.FuncMap()).Parse(resetMailTemplate)
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, map[string]string{"Name": name, "ResetURL": resetURL}); err != nil {
		t.Fatalf("execute template: %v", err)
	}
	return body.String()
}

func TestResetMailTemplate(t *testing.T) {
	body := renderReset(t, " Ada ", "https://app.example.com/reset-password?token=abc")

	if !strings.Contains(body, "Hi Ada,") {
		t.Errorf("Expected trimmed greeting with name, got %q", body)
	}
	if !strings.Contains(body, "https://app.example.com/reset-password?token=abc") {
		t.Errorf("Expected reset link in body, got %q", body)
	}
}

func TestResetMailTemplateWithoutName(t *testing.T) {
	body := renderReset(t, "", "https://app.example.com/reset-password?token=abc")

	if !strings.Contains(body, "Hi,") {
		t.Errorf("Expected bare greeting for nameless account, got %q", body)
	}
}
