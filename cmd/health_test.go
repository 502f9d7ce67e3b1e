// ABOUTME: Tests for the health command
// ABOUTME: Verifies health check output formatting and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medquery/medquery-cli/internal/client"
)

func TestFormatHealthHuman(t *testing.T) {
	resp := &client.HealthResponse{
		Status:  "healthy",
		Service: "authentication",
	}

	output := formatHealthHuman("http://localhost:8000", resp)

	if !bytes.Contains([]byte(output), []byte("http://localhost:8000")) {
		t.Error("expected output to contain backend URL")
	}
	if !bytes.Contains([]byte(output), []byte("authentication")) {
		t.Error("expected output to contain service name")
	}
	if !bytes.Contains([]byte(output), []byte("healthy")) {
		t.Error("expected output to contain healthy status")
	}
}

func TestFormatHealthJSON(t *testing.T) {
	resp := &client.HealthResponse{
		Status:  "healthy",
		Service: "authentication",
	}

	output := formatHealthJSON("http://localhost:8000", resp)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["backend"] != "http://localhost:8000" {
		t.Errorf("expected backend URL in JSON, got %v", parsed["backend"])
	}
	if parsed["status"] != "healthy" {
		t.Errorf("expected healthy status in JSON, got %v", parsed["status"])
	}
}

func TestHealthCommand_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(client.HealthResponse{
			Status:  "healthy",
			Service: "authentication",
		})
	}))
	defer server.Close()

	t.Setenv("MEDQUERY_CONFIG_DIR", t.TempDir())
	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("healthy")) {
		t.Error("expected healthy in output")
	}
}

func TestHealthCommand_ConnectionError(t *testing.T) {
	t.Setenv("MEDQUERY_CONFIG_DIR", t.TempDir())
	apiURL = "http://localhost:99999"
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Error:")) {
		t.Error("expected error message in output")
	}
}
