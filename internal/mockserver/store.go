// ABOUTME: In-memory user store for the mock identity server
// ABOUTME: Holds registered accounts with bcrypt password hashes

package mockserver

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateEmail is returned when registering an email that exists
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUserNotFound is returned when no account matches the email
	ErrUserNotFound = errors.New("user not found")
)

// User is a registered account held in memory
type User struct {
	ID             int
	Email          string
	FullName       string
	HashedPassword []byte
	Role           string
	LicenseNumber  string
	Institution    string
	Specialization string
}

// userStore is a mutex-guarded in-memory account table
type userStore struct {
	mu      sync.Mutex
	byEmail map[string]*User
	nextID  int
}

func newUserStore() *userStore {
	return &userStore{
		byEmail: make(map[string]*User),
		nextID:  1,
	}
}

// Create registers a new account, assigning the next user ID
func (s *userStore) Create(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return ErrDuplicateEmail
	}

	u.ID = s.nextID
	s.nextID++
	s.byEmail[u.Email] = u
	return nil
}

// GetByEmail looks up an account by email
func (s *userStore) GetByEmail(email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// seedUser describes a demo account created at startup
type seedUser struct {
	email          string
	fullName       string
	role           string
	licenseNumber  string
	institution    string
	specialization string
}

var demoUsers = []seedUser{
	{"demo@medquery.com", "Demo Doctor", "doctor", "MD-48291", "St. Mary's Hospital", "Cardiology"},
	{"researcher@medquery.com", "Demo Researcher", "researcher", "RS-10044", "MedQuery Research Institute", "Oncology"},
	{"patient@medquery.com", "Demo Patient", "patient", "", "", ""},
	{"admin@medquery.com", "Demo Admin", "admin", "", "MedQuery", ""},
}

// demoPassword is shared by all seeded demo accounts
const demoPassword = "demo123"

// seed populates the store with one demo account per role
func (s *userStore) seed() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, d := range demoUsers {
		u := &User{
			Email:          d.email,
			FullName:       d.fullName,
			HashedPassword: hash,
			Role:           d.role,
			LicenseNumber:  d.licenseNumber,
			Institution:    d.institution,
			Specialization: d.specialization,
		}
		if err := s.Create(u); err != nil {
			return err
		}
	}
	return nil
}
