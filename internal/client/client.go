// ABOUTME: HTTP client for the MedQuery identity API
// ABOUTME: Wraps /auth endpoints with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Client is the API client for the MedQuery backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return NewWithTimeout(baseURL, 30*time.Second)
}

// NewWithTimeout creates a new API client with a custom request timeout
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is a non-2xx response from the backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsAuthError reports whether err is an APIError with a 401 or 403 status
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}

// SignupRequest is the payload for POST /auth/signup
type SignupRequest struct {
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	LicenseNumber  string `json:"license_number,omitempty"`
	Institution    string `json:"institution,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// SignupResponse is the acknowledgement from POST /auth/signup
type SignupResponse struct {
	Message   string `json:"message"`
	UserID    int    `json:"user_id"`
	UserEmail string `json:"user_email"`
	UserRole  string `json:"user_role"`
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginResponse is the token issued by POST /auth/login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Profile is the server-confirmed identity from GET /auth/me
type Profile struct {
	ID             int    `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
	LicenseNumber  string `json:"license_number,omitempty"`
	Institution    string `json:"institution,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// HealthResponse is the GET /auth/health response
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// errorBody is the error shape returned by the backend.
// detail is preferred, message is the fallback.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// Signup calls POST /auth/signup
func (c *Client) Signup(ctx context.Context, req *SignupRequest) (*SignupResponse, error) {
	var resp SignupResponse
	if err := c.post(ctx, "/auth/signup", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login calls POST /auth/login
func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout calls POST /auth/logout with the given bearer token
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.post(ctx, "/auth/logout", token, nil, nil)
}

// Me calls GET /auth/me with the given bearer token
func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/auth/me", token, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Health calls GET /auth/health
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get(ctx, "/auth/health", "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, token, out)
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, token, out)
}

func (c *Client) do(req *http.Request, token string, out interface{}) error {
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(req.Context(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses.
// The backend sends a detail field (preferred) or message; absent both,
// a generic message is used so the caller always has something to show.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: "An error occurred"}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Detail != "" {
			apiErr.Message = body.Detail
		} else if body.Message != "" {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}

// TokenExpiry extracts the expiry time from a JWT access token without
// verifying its signature. Used for display only, never for auth decisions.
func TokenExpiry(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("cannot parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}
	return claims.ExpiresAt.Time, nil
}
