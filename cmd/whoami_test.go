// ABOUTME: Tests for the whoami command
// ABOUTME: Verifies profile output and not-logged-in handling

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/medquery/medquery-cli/internal/client"
	"github.com/medquery/medquery-cli/internal/session"
)

func TestWhoamiCommand_Authenticated(t *testing.T) {
	server := newAuthServer(t)

	dir := t.TempDir()
	t.Setenv("MEDQUERY_CONFIG_DIR", dir)
	apiURL = server.URL
	defer func() { apiURL = "" }()

	if err := session.NewFileStore(dir).Save("abc"); err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}

	var buf bytes.Buffer
	exitCode := runWhoami(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d (output: %s)", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Demo Doctor")) {
		t.Errorf("expected profile name in output, got: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("doctor")) {
		t.Errorf("expected role in output, got: %s", buf.String())
	}
}

func TestWhoamiCommand_NotLoggedIn(t *testing.T) {
	server := newAuthServer(t)

	t.Setenv("MEDQUERY_CONFIG_DIR", t.TempDir())
	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runWhoami(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Not logged in")) {
		t.Errorf("expected not logged in message, got: %s", buf.String())
	}
}

func TestWhoamiCommand_StaleTokenDiscarded(t *testing.T) {
	server := newAuthServer(t)

	dir := t.TempDir()
	t.Setenv("MEDQUERY_CONFIG_DIR", dir)
	apiURL = server.URL
	defer func() { apiURL = "" }()

	store := session.NewFileStore(dir)
	if err := store.Save("stale-token"); err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}

	var buf bytes.Buffer
	exitCode := runWhoami(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1 for stale token, got %d", exitCode)
	}
	token, _ := store.Load()
	if token != "" {
		t.Errorf("expected stale token removed, got %q", token)
	}
}

func TestFormatProfileHuman(t *testing.T) {
	p := &client.Profile{
		FullName:       "Demo Doctor",
		Email:          "demo@medquery.com",
		Role:           "doctor",
		LicenseNumber:  "MD-48291",
		Institution:    "St. Mary's Hospital",
		Specialization: "Cardiology",
	}

	out := formatProfileHuman(p)

	for _, want := range []string{"Demo Doctor", "demo@medquery.com", "doctor", "MD-48291", "St. Mary's Hospital", "Cardiology"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestFormatProfileHuman_OmitsEmptyFields(t *testing.T) {
	p := &client.Profile{
		FullName: "Pat Patient",
		Email:    "patient@medquery.com",
		Role:     "patient",
	}

	out := formatProfileHuman(p)

	if bytes.Contains([]byte(out), []byte("License")) {
		t.Error("expected no license line for patient")
	}
	if bytes.Contains([]byte(out), []byte("Institution")) {
		t.Error("expected no institution line for patient")
	}
}
