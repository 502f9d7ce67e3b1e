// ABOUTME: Local mock of the MedQuery identity API for offline development
// ABOUTME: Implements /auth endpoints in-memory with the production wire contract

package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type contextKey string

const userEmailKey contextKey = "userEmail"

// Options configure the mock server
type Options struct {
	JWTSecret   string
	TokenExpiry time.Duration
	SeedDemo    bool    // create one demo account per role
	LoginRPS    float64 // per-IP rate limit for signup/login, 0 disables
	LoginBurst  int
}

// Server is an in-memory implementation of the MedQuery auth API
type Server struct {
	store  *userStore
	opts   Options
	router chi.Router
}

// New creates a mock identity server. Error responses carry a detail field
// to match the production backend contract.
func New(opts Options) (*Server, error) {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "mockd-dev-secret"
	}
	if opts.TokenExpiry == 0 {
		opts.TokenExpiry = 30 * time.Minute
	}

	s := &Server{
		store: newUserStore(),
		opts:  opts,
	}

	if opts.SeedDemo {
		if err := s.store.seed(); err != nil {
			return nil, fmt.Errorf("failed to seed demo users: %w", err)
		}
	}

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if opts.LoginRPS > 0 {
			r.Use(rateLimit(opts.LoginRPS, opts.LoginBurst))
		}
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)
		r.Get("/auth/me", s.handleMe)
		r.Post("/auth/logout", s.handleLogout)
	})

	r.Get("/auth/health", s.handleHealth)

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type signupRequest struct {
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	LicenseNumber  string `json:"license_number"`
	Institution    string `json:"institution"`
	Specialization string `json:"specialization"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.FullName == "" || req.Password == "" || req.Role == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Validation error: email, full_name, password, and role are required")
		return
	}
	if !validRole(req.Role) {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("Validation error: unknown role %q", req.Role))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "An error occurred during registration. Please try again.")
		return
	}

	user := &User{
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: hash,
		Role:           req.Role,
		LicenseNumber:  req.LicenseNumber,
		Institution:    req.Institution,
		Specialization: req.Specialization,
	}

	if err := s.store.Create(user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			writeDetail(w, http.StatusBadRequest, "Email already registered. Please use a different email address.")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "An error occurred during registration. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Account created successfully! Welcome to MedQuery Agent.",
		"user_id":    user.ID,
		"user_email": user.Email,
		"user_role":  user.Role,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.store.GetByEmail(req.Email)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password. Please check your credentials.")
		return
	}

	if bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password. Please check your credentials.")
		return
	}

	// The backend rejects logins under a role other than the registered one
	if user.Role != req.Role {
		writeDetail(w, http.StatusUnauthorized,
			fmt.Sprintf("Role mismatch. You are registered as %s, not %s.", user.Role, req.Role))
		return
	}

	token, err := GenerateToken(user.Email, user.Role, s.opts.JWTSecret, s.opts.TokenExpiry)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "An error occurred during login. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	email, ok := r.Context().Value(userEmailKey).(string)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	user, err := s.store.GetByEmail(email)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":             user.ID,
		"email":          user.Email,
		"full_name":      user.FullName,
		"role":           user.Role,
		"license_number": user.LicenseNumber,
		"institution":    user.Institution,
		"specialization": user.Specialization,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully logged out. Please remove the token from client storage.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "authentication",
	})
}

// bearerAuth validates the Authorization header and stores the user email
// in the request context
func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := ValidateToken(token, s.opts.JWTSecret)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), userEmailKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validRole(role string) bool {
	switch role {
	case "doctor", "researcher", "patient", "admin":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	rl := &ipRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go rl.cleanup()
	return rl
}

func (rl *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *ipRateLimiter) cleanup() {
	for {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// rateLimit returns middleware that limits requests per client IP
func rateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.getLimiter(ip).Allow() {
				writeDetail(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
