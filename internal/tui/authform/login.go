// ABOUTME: Login form as a bubbletea model built on huh
// ABOUTME: Collects email, password, and role and emits a submit message

package authform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/medquery/medquery-cli/internal/session"
	"github.com/medquery/medquery-cli/internal/tui/styles"
)

// LoginSubmittedMsg is sent when the login form is submitted
type LoginSubmittedMsg struct {
	Email    string
	Password string
	Role     string
}

// SwitchToSignupMsg is sent when the user asks for the signup form instead
type SwitchToSignupMsg struct{}

// CancelledMsg is sent when an auth form is cancelled
type CancelledMsg struct{}

// Login manages the sign-in form flow as a bubbletea model
type Login struct {
	form  *huh.Form
	width int

	email    string
	password string
	role     string

	// Server rejection shown above the form, cleared on resubmit
	serverError string
}

// NewLogin creates a login form with the doctor role preselected
func NewLogin() *Login {
	l := &Login{role: session.RoleDoctor}
	l.form = l.createForm()
	return l
}

func (l *Login) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@hospital.org").
				Value(&l.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(validateRequired("Password")),
			huh.NewSelect[string]().
				Title("Sign in as").
				Options(roleOptions...).
				Value(&l.role),
		).Title("Sign In").
			Description("Access your MedQuery portal"),
	).WithTheme(createTheme())
}

// SetServerError displays a rejection from the backend above the form
func (l *Login) SetServerError(msg string) {
	l.serverError = msg
	l.password = ""
	l.form = l.createForm()
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		form, cmd := l.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			l.form = f
		}
		return l, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return l, func() tea.Msg { return CancelledMsg{} }
		case "ctrl+s":
			return l, func() tea.Msg { return SwitchToSignupMsg{} }
		}
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		submitted := LoginSubmittedMsg{
			Email:    strings.TrimSpace(l.email),
			Password: l.password,
			Role:     l.role,
		}
		l.serverError = ""
		return l, func() tea.Msg { return submitted }
	}

	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder

	if l.serverError != "" {
		sb.WriteString(styles.StatusCritical.Render(l.serverError))
		sb.WriteString("\n\n")
	}

	sb.WriteString(l.form.View())
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("ctrl+s Create account  esc Cancel"))

	return sb.String()
}

// validateEmail requires a plausible email address
func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	at := strings.Index(s, "@")
	if at <= 0 || !strings.Contains(s[at:], ".") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// validateRequired returns a validator requiring a non-empty value
func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", strings.ToLower(field))
		}
		return nil
	}
}
