// ABOUTME: Tests for the MedQuery identity API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHealth_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/health" {
			t.Errorf("expected path /auth/health, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{
			Status:  "healthy",
			Service: "authentication",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected status healthy, got %s", resp.Status)
	}
	if resp.Service != "authentication" {
		t.Errorf("expected service authentication, got %s", resp.Service)
	}
}

func TestHealth_ConnectionError(t *testing.T) {
	c := New("http://localhost:99999")
	_, err := c.Health(context.Background())
	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

func TestHealth_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{Status: "healthy", Service: "authentication"})
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := c.Health(ctx)
	if err == nil {
		t.Error("expected error for canceled context, got nil")
	}
}

func TestHealth_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{Status: "healthy", Service: "authentication"})
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Health(ctx)
	if err == nil {
		t.Error("expected error for timed out context, got nil")
	}
}

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("expected path /auth/login, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Email != "demo@medquery.com" {
			t.Errorf("expected email demo@medquery.com, got %s", req.Email)
		}
		if req.Role != "doctor" {
			t.Errorf("expected role doctor, got %s", req.Role)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(LoginResponse{
			AccessToken: "abc",
			TokenType:   "bearer",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Login(context.Background(), &LoginRequest{
		Email:    "demo@medquery.com",
		Password: "demo123",
		Role:     "doctor",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken != "abc" {
		t.Errorf("expected token abc, got %s", resp.AccessToken)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"detail": "Invalid email or password. Please check your credentials.",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Login(context.Background(), &LoginRequest{
		Email:    "demo@medquery.com",
		Password: "wrong",
		Role:     "doctor",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.Status)
	}
	if apiErr.Message != "Invalid email or password. Please check your credentials." {
		t.Errorf("unexpected message: %s", apiErr.Message)
	}
	if !IsAuthError(err) {
		t.Error("expected IsAuthError to report true for 401")
	}
}

func TestErrorResponse_MessageFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "something specific"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Health(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Message != "something specific" {
		t.Errorf("expected message fallback, got %s", apiErr.Message)
	}
}

func TestErrorResponse_GenericFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Health(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Message != "An error occurred" {
		t.Errorf("expected generic fallback message, got %s", apiErr.Message)
	}
}

func TestMe_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Errorf("expected path /auth/me, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("expected Authorization 'Bearer abc', got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Profile{
			ID:       1,
			Email:    "demo@medquery.com",
			FullName: "Demo Doctor",
			Role:     "doctor",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	profile, err := c.Me(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.FullName != "Demo Doctor" {
		t.Errorf("expected Demo Doctor, got %s", profile.FullName)
	}
}

func TestMe_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Me(context.Background(), "expired")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsAuthError(err) {
		t.Error("expected auth error for 401")
	}
}

func TestLogout_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/logout" {
			t.Errorf("expected path /auth/logout, got %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Successfully logged out"})
	}))
	defer server.Close()

	c := New(server.URL)
	if err := c.Logout(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("expected Authorization 'Bearer abc', got %q", gotAuth)
	}
}

func TestSignup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.FullName != "Jane Rivera" {
			t.Errorf("expected full_name Jane Rivera, got %s", req.FullName)
		}
		if req.LicenseNumber != "MD-12345" {
			t.Errorf("expected license_number MD-12345, got %s", req.LicenseNumber)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SignupResponse{
			Message:   "Account created successfully",
			UserID:    7,
			UserEmail: req.Email,
			UserRole:  req.Role,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Signup(context.Background(), &SignupRequest{
		Email:         "jane@hospital.org",
		FullName:      "Jane Rivera",
		Password:      "Str0ngPass",
		Role:          "doctor",
		LicenseNumber: "MD-12345",
		Institution:   "General Hospital",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.UserID != 7 {
		t.Errorf("expected user_id 7, got %d", resp.UserID)
	}
	if resp.UserRole != "doctor" {
		t.Errorf("expected user_role doctor, got %s", resp.UserRole)
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "demo@medquery.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	got, err := TokenExpiry(signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, got)
	}
}

func TestTokenExpiry_NotAToken(t *testing.T) {
	if _, err := TokenExpiry("abc"); err == nil {
		t.Error("expected error for malformed token, got nil")
	}
}
