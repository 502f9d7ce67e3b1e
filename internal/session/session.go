// ABOUTME: Session manager owning the client-side authentication lifecycle
// ABOUTME: Mediates login/signup/logout and keeps token and profile consistent

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/medquery/medquery-cli/internal/client"
)

// State represents the authentication state of the session
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Roles accepted by the portal
const (
	RoleDoctor     = "doctor"
	RoleResearcher = "researcher"
	RolePatient    = "patient"
	RoleAdmin      = "admin"
)

// Roles lists all valid roles in display order
var Roles = []string{RoleDoctor, RoleResearcher, RolePatient, RoleAdmin}

// ValidRole reports whether role is one of the closed role set
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

var (
	// ErrOperationInFlight is returned when a login or signup is attempted
	// while another one is still outstanding
	ErrOperationInFlight = errors.New("another authentication request is in progress")

	// ErrMissingCredentials is returned when email or password is empty
	ErrMissingCredentials = errors.New("email and password are required")
)

// Manager owns the authentication lifecycle: obtaining a bearer token,
// persisting it, resolving the profile, and clearing state on logout or
// token invalidation. At most one valid token is held at a time, and a
// token is never held without a server-confirmed profile.
type Manager struct {
	client *client.Client
	store  TokenStore

	mu       sync.Mutex
	inFlight bool
	state    State
	token    string
	profile  *client.Profile
}

// NewManager creates a session manager in the Unauthenticated state
func NewManager(c *client.Client, store TokenStore) *Manager {
	return &Manager{
		client: c,
		store:  store,
		state:  Unauthenticated,
	}
}

// State returns the current session state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether the session holds a validated token
func (m *Manager) IsAuthenticated() bool {
	return m.State() == Authenticated
}

// CurrentUser returns the server-confirmed profile, or nil when unauthenticated
func (m *Manager) CurrentUser() *client.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// Token returns the active bearer token, or "" when unauthenticated
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Initialize revalidates any persisted token against the identity endpoint.
// It must complete before role-specific UI is shown. Failures of any kind
// leave the session Unauthenticated with the stored token discarded; they
// are never surfaced as errors because this path runs before any
// user-initiated action.
func (m *Manager) Initialize(ctx context.Context) {
	token, err := m.store.Load()
	if err != nil {
		slog.Debug("token load failed, starting unauthenticated", "error", err)
		return
	}
	if token == "" {
		return
	}

	profile, err := m.client.Me(ctx, token)
	if err != nil {
		slog.Debug("persisted token rejected, clearing", "error", err)
		if clearErr := m.store.Clear(); clearErr != nil {
			slog.Warn("failed to remove stored token", "error", clearErr)
		}
		return
	}

	m.mu.Lock()
	m.token = token
	m.profile = profile
	m.state = Authenticated
	m.mu.Unlock()
}

// Login authenticates against the identity endpoint and resolves the profile.
// On success the token is persisted and the session becomes Authenticated.
// A profile fetch failure after token issuance is a hard failure: the token
// is discarded and the session stays Unauthenticated, since a token without
// a confirmed profile is disallowed.
//
// The role returned by the server is authoritative; the role selected here is
// sent as part of the credentials but never trusted for the resulting session.
func (m *Manager) Login(ctx context.Context, email, password, role string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	if !ValidRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}

	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	resp, err := m.client.Login(ctx, &client.LoginRequest{
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		m.setUnauthenticated()
		return err
	}

	if err := m.store.Save(resp.AccessToken); err != nil {
		m.setUnauthenticated()
		return fmt.Errorf("failed to persist token: %w", err)
	}

	profile, err := m.client.Me(ctx, resp.AccessToken)
	if err != nil {
		if clearErr := m.store.Clear(); clearErr != nil {
			slog.Warn("failed to remove stored token", "error", clearErr)
		}
		m.setUnauthenticated()
		return fmt.Errorf("signed in but could not confirm profile: %w", err)
	}

	m.mu.Lock()
	m.token = resp.AccessToken
	m.profile = profile
	m.state = Authenticated
	m.mu.Unlock()
	return nil
}

// Signup validates the form client-side and submits it to the registration
// endpoint. It does not authenticate: on success the caller is expected to
// direct the user to the login flow.
func (m *Manager) Signup(ctx context.Context, data *SignupData) (*client.SignupResponse, error) {
	if errs := data.Validate(); len(errs) > 0 {
		return nil, errs
	}

	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.end()

	resp, err := m.client.Signup(ctx, &client.SignupRequest{
		Email:          data.Email,
		FullName:       data.FullName,
		Password:       data.Password,
		Role:           data.Role,
		LicenseNumber:  data.LicenseNumber,
		Institution:    data.Institution,
		Specialization: data.Specialization,
	})
	if err != nil {
		m.setUnauthenticated()
		return nil, err
	}

	m.setUnauthenticated()
	return resp, nil
}

// Logout notifies the identity endpoint best-effort and unconditionally
// clears local state. It cannot fail from the caller's perspective.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token != "" {
		if err := m.client.Logout(ctx, token); err != nil {
			slog.Warn("logout notification failed", "error", err)
		}
	}

	if err := m.store.Clear(); err != nil {
		slog.Warn("failed to remove stored token", "error", err)
	}

	m.mu.Lock()
	m.token = ""
	m.profile = nil
	m.state = Unauthenticated
	m.mu.Unlock()
}

// Refresh refetches the profile with the active token. An auth error from
// the endpoint invalidates the session: token cleared, state Unauthenticated.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		return errors.New("not authenticated")
	}

	profile, err := m.client.Me(ctx, token)
	if err != nil {
		if client.IsAuthError(err) {
			if clearErr := m.store.Clear(); clearErr != nil {
				slog.Warn("failed to remove stored token", "error", clearErr)
			}
			m.mu.Lock()
			m.token = ""
			m.profile = nil
			m.state = Unauthenticated
			m.mu.Unlock()
		}
		return err
	}

	m.mu.Lock()
	m.profile = profile
	m.mu.Unlock()
	return nil
}

// begin claims the in-flight guard so concurrent login/signup calls are
// rejected rather than racing on token state
func (m *Manager) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return ErrOperationInFlight
	}
	m.inFlight = true
	m.state = Authenticating
	return nil
}

func (m *Manager) end() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}

func (m *Manager) setUnauthenticated() {
	m.mu.Lock()
	m.token = ""
	m.profile = nil
	m.state = Unauthenticated
	m.mu.Unlock()
}
