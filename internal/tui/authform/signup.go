// ABOUTME: Registration form as a multi-step bubbletea model built on huh
// ABOUTME: Walks through account, credential, and professional detail steps

package authform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/medquery/medquery-cli/internal/session"
	"github.com/medquery/medquery-cli/internal/tui/icons"
	"github.com/medquery/medquery-cli/internal/tui/styles"
)

// SignupSubmittedMsg is sent when the registration form completes
type SignupSubmittedMsg struct {
	Data *session.SignupData
}

// SwitchToLoginMsg is sent when the user asks for the login form instead
type SwitchToLoginMsg struct{}

// Signup manages the multi-step registration flow as a bubbletea model
type Signup struct {
	data  *session.SignupData
	form  *huh.Form
	step  int
	width int

	agreeTerms bool
	agreeHipaa bool

	serverError string
}

// Step names for progress indicator
var signupSteps = []string{"Account", "Password", "Details"}

// NewSignup creates a registration form starting at the account step
func NewSignup() *Signup {
	s := &Signup{
		data: &session.SignupData{Role: session.RolePatient},
		step: 1,
	}
	s.form = s.createAccountForm()
	return s
}

func (s *Signup) createAccountForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Placeholder("Jane Rivera").
				Value(&s.data.FullName).
				Validate(validateRequired("Full name")),
			huh.NewInput().
				Title("Email").
				Placeholder("you@hospital.org").
				Value(&s.data.Email).
				Validate(validateEmail),
			huh.NewSelect[string]().
				Title("I am a").
				Options(roleOptions...).
				Value(&s.data.Role),
		).Title("Step 1: Account").
			Description("Tell us who you are"),
	).WithTheme(createTheme())
}

func (s *Signup) createPasswordForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				Description("At least 8 characters with uppercase, lowercase, and a number").
				EchoMode(huh.EchoModePassword).
				Value(&s.data.Password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&s.data.ConfirmPassword),
		).Title("Step 2: Password").
			Description("Choose a strong password"),
	).WithTheme(createTheme())
}

func (s *Signup) createDetailsForm() *huh.Form {
	fields := []huh.Field{}

	if s.data.Role == session.RoleDoctor || s.data.Role == session.RoleResearcher {
		fields = append(fields, huh.NewInput().
			Title("License number").
			Placeholder("MD-12345").
			Value(&s.data.LicenseNumber).
			Validate(validateRequired("License number")))
	}
	if s.data.Role != session.RolePatient {
		fields = append(fields, huh.NewInput().
			Title("Institution / Hospital").
			Placeholder("St. Mary's Hospital").
			Value(&s.data.Institution).
			Validate(validateRequired("Institution")))
	}
	if s.data.Role == session.RoleDoctor {
		fields = append(fields, huh.NewInput().
			Title("Specialization").
			Placeholder("Cardiology").
			Value(&s.data.Specialization))
	}

	fields = append(fields,
		huh.NewConfirm().
			Title("I agree to the terms and conditions").
			Affirmative("Agree").
			Negative("Decline").
			Value(&s.agreeTerms),
		huh.NewConfirm().
			Title("I acknowledge the HIPAA privacy practices").
			Affirmative("Acknowledge").
			Negative("Decline").
			Value(&s.agreeHipaa),
	)

	return huh.NewForm(
		huh.NewGroup(fields...).
			Title("Step 3: Details").
			Description("Professional details and consent"),
	).WithTheme(createTheme())
}

// SetServerError displays a rejection from the backend above the form
func (s *Signup) SetServerError(msg string) {
	s.serverError = msg
}

// Init implements tea.Model
func (s *Signup) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *Signup) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		form, cmd := s.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			s.form = f
		}
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return CancelledMsg{} }
		case "ctrl+l":
			return s, func() tea.Msg { return SwitchToLoginMsg{} }
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		return s.advanceStep()
	}

	return s, cmd
}

func (s *Signup) advanceStep() (tea.Model, tea.Cmd) {
	switch s.step {
	case 1:
		s.step = 2
		s.form = s.createPasswordForm()
		return s, s.form.Init()

	case 2:
		if s.data.Password != s.data.ConfirmPassword {
			s.serverError = "Passwords do not match"
			s.data.ConfirmPassword = ""
			s.form = s.createPasswordForm()
			return s, s.form.Init()
		}
		s.serverError = ""
		s.step = 3
		s.form = s.createDetailsForm()
		return s, s.form.Init()

	case 3:
		s.data.AgreeToTerms = s.agreeTerms
		s.data.AgreeToHipaa = s.agreeHipaa
		if err := s.data.Validate(); err != nil {
			s.serverError = err.Error()
			s.form = s.createDetailsForm()
			return s, s.form.Init()
		}
		s.serverError = ""
		submitted := SignupSubmittedMsg{Data: s.data}
		return s, func() tea.Msg { return submitted }
	}

	return s, nil
}

// View implements tea.Model
func (s *Signup) View() string {
	var sb strings.Builder

	sb.WriteString(s.renderProgress())
	sb.WriteString("\n\n")

	if s.serverError != "" {
		sb.WriteString(styles.StatusCritical.Render(s.serverError))
		sb.WriteString("\n\n")
	}

	sb.WriteString(s.form.View())
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("ctrl+l Sign in instead  esc Cancel"))

	return sb.String()
}

// renderProgress renders the step progress indicator
func (s *Signup) renderProgress() string {
	var steps []string
	for i, name := range signupSteps {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		if stepNum < s.step {
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		} else if stepNum == s.step {
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		} else {
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	return strings.Join(steps, "    ")
}

// validatePassword enforces the portal password policy
func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("must contain uppercase, lowercase, and number")
	}
	return nil
}
