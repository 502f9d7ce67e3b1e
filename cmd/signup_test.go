// ABOUTME: Tests for the signup command
// ABOUTME: Verifies validation output, exit codes, and the success path

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medquery/medquery-cli/internal/client"
	"github.com/medquery/medquery-cli/internal/session"
)

// resetSignupData clears the flag-bound form between tests
func resetSignupData() {
	signupData = session.SignupData{}
}

func TestSignupCommand_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/signup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(client.SignupResponse{
			Message:   "Account created successfully! Welcome to MedQuery Agent.",
			UserID:    5,
			UserEmail: "jane@hospital.org",
			UserRole:  "doctor",
		})
	}))
	defer server.Close()

	t.Setenv("MEDQUERY_CONFIG_DIR", t.TempDir())
	apiURL = server.URL
	defer func() { apiURL = "" }()

	resetSignupData()
	defer resetSignupData()
	signupData = session.SignupData{
		FullName:      "Jane Rivera",
		Email:         "jane@hospital.org",
		Password:      "Str0ngPass",
		Role:          session.RoleDoctor,
		LicenseNumber: "MD-12345",
		Institution:   "General Hospital",
		AgreeToTerms:  true,
		AgreeToHipaa:  true,
	}

	var buf bytes.Buffer
	exitCode := runSignup(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d (output: %s)", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Account created successfully")) {
		t.Errorf("expected success message, got: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("medquery login")) {
		t.Errorf("expected login hint, got: %s", buf.String())
	}
}

func TestSignupCommand_ValidationErrors(t *testing.T) {
	t.Setenv("MEDQUERY_CONFIG_DIR", t.TempDir())

	resetSignupData()
	defer resetSignupData()
	signupData = session.SignupData{
		Email:    "jane@hospital.org",
		Password: "short1",
		Role:     session.RoleDoctor,
	}

	var buf bytes.Buffer
	exitCode := runSignup(context.Background(), &buf)

	if exitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Please correct the following:")) {
		t.Errorf("expected validation header, got: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("password: Password must be at least 8 characters")) {
		t.Errorf("expected password error, got: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("licenseNumber:")) {
		t.Errorf("expected license error for doctor, got: %s", buf.String())
	}
}

func TestSignupCommand_DuplicateEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"detail": "Email already registered. Please use a different email address.",
		})
	}))
	defer server.Close()

	t.Setenv("MEDQUERY_CONFIG_DIR", t.TempDir())
	apiURL = server.URL
	defer func() { apiURL = "" }()

	resetSignupData()
	defer resetSignupData()
	signupData = session.SignupData{
		FullName:     "Pat Patient",
		Email:        "patient@medquery.com",
		Password:     "Str0ngPass",
		Role:         session.RolePatient,
		AgreeToTerms: true,
		AgreeToHipaa: true,
	}

	var buf bytes.Buffer
	exitCode := runSignup(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1 for rejected registration, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Email already registered")) {
		t.Errorf("expected backend detail in output, got: %s", buf.String())
	}
}

func TestSignupCommand_ConnectionError(t *testing.T) {
	t.Setenv("MEDQUERY_CONFIG_DIR", t.TempDir())
	apiURL = "http://localhost:99999"
	defer func() { apiURL = "" }()

	resetSignupData()
	defer resetSignupData()
	signupData = session.SignupData{
		FullName:     "Pat Patient",
		Email:        "patient@medquery.com",
		Password:     "Str0ngPass",
		Role:         session.RolePatient,
		AgreeToTerms: true,
		AgreeToHipaa: true,
	}

	var buf bytes.Buffer
	exitCode := runSignup(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2 for connection error, got %d", exitCode)
	}
}
