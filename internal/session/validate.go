// ABOUTME: Client-side signup form validation
// ABOUTME: Field-level checks that run before any network call is made

package session

import (
	"regexp"
	"sort"
	"strings"
)

// SignupData is the registration form as entered by the user
type SignupData struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	LicenseNumber   string
	Institution     string
	Specialization  string
	AgreeToTerms    bool
	AgreeToHipaa    bool
}

// FieldErrors maps form field names to validation messages
type FieldErrors map[string]string

// Error joins all field errors into a single message, fields sorted for
// deterministic output
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fe))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, "; ")
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`\d`)
)

// Validate checks all signup fields and returns one error per failing field.
// An empty map means the form is valid. The authoritative validation is
// server-side; these checks only prevent obviously bad submissions.
func (d *SignupData) Validate() FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(d.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}

	if strings.TrimSpace(d.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(d.Email) {
		errs["email"] = "Please enter a valid email address"
	}

	if d.Password == "" {
		errs["password"] = "Password is required"
	} else if len(d.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters"
	} else if !lowerPattern.MatchString(d.Password) ||
		!upperPattern.MatchString(d.Password) ||
		!digitPattern.MatchString(d.Password) {
		errs["password"] = "Password must contain uppercase, lowercase, and number"
	}

	if d.ConfirmPassword == "" {
		errs["confirmPassword"] = "Please confirm your password"
	} else if d.Password != d.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}

	if !ValidRole(d.Role) {
		errs["role"] = "Please select a valid role"
	}

	if (d.Role == RoleDoctor || d.Role == RoleResearcher) && strings.TrimSpace(d.LicenseNumber) == "" {
		errs["licenseNumber"] = "License number is required for medical professionals"
	}

	if d.Role != RolePatient && ValidRole(d.Role) && strings.TrimSpace(d.Institution) == "" {
		errs["institution"] = "Institution/Hospital name is required"
	}

	if !d.AgreeToTerms {
		errs["agreeToTerms"] = "You must agree to the terms and conditions"
	}

	if !d.AgreeToHipaa {
		errs["agreeToHipaa"] = "You must acknowledge the HIPAA privacy practices"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
