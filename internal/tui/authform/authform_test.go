// ABOUTME: Tests for auth form field validators
// ABOUTME: Covers email, required, and password policy checks

package authform

import (
	"testing"

	"github.com/medquery/medquery-cli/internal/session"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"jane@hospital.org", "a@b.co"}
	for _, e := range valid {
		if err := validateEmail(e); err != nil {
			t.Errorf("expected %q to validate, got %v", e, err)
		}
	}

	invalid := []string{"", "plainaddress", "@nodomain", "user@nodot"}
	for _, e := range invalid {
		if err := validateEmail(e); err == nil {
			t.Errorf("expected %q to be rejected", e)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	check := validateRequired("Full name")
	if err := check("Jane"); err != nil {
		t.Errorf("expected non-empty value to validate, got %v", err)
	}
	if err := check("   "); err == nil {
		t.Error("expected whitespace-only value to be rejected")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := validatePassword("Str0ngPass"); err != nil {
		t.Errorf("expected strong password to validate, got %v", err)
	}
	if err := validatePassword("short1A"); err == nil {
		t.Error("expected short password to be rejected")
	}
	if err := validatePassword("alllowercase1"); err == nil {
		t.Error("expected password without uppercase to be rejected")
	}
	if err := validatePassword("ALLUPPERCASE1"); err == nil {
		t.Error("expected password without lowercase to be rejected")
	}
	if err := validatePassword("NoDigitsHere"); err == nil {
		t.Error("expected password without digits to be rejected")
	}
}

func TestNewLogin_DefaultsToDoctor(t *testing.T) {
	l := NewLogin()
	if l.role != session.RoleDoctor {
		t.Errorf("expected doctor preselected, got %s", l.role)
	}
}

func TestNewSignup_StartsAtAccountStep(t *testing.T) {
	s := NewSignup()
	if s.step != 1 {
		t.Errorf("expected step 1, got %d", s.step)
	}
	if s.data.Role != session.RolePatient {
		t.Errorf("expected patient preselected, got %s", s.data.Role)
	}
}
