// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/medquery/medquery-cli/internal/session"
	"github.com/medquery/medquery-cli/internal/tui/authform"
	"github.com/medquery/medquery-cli/internal/tui/chat"
	"github.com/medquery/medquery-cli/internal/tui/dashboard"
	"github.com/medquery/medquery-cli/internal/tui/icons"
	"github.com/medquery/medquery-cli/internal/tui/styles"
	"github.com/medquery/medquery-cli/internal/tui/upload"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenLogin
	ScreenSignup
	ScreenDashboard
	ScreenChat
	ScreenUpload
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// sessionRestoredMsg is sent after the stored token has been revalidated
type sessionRestoredMsg struct {
	authenticated bool
}

// loginResultMsg is sent when a sign-in attempt completes
type loginResultMsg struct {
	err error
}

// signupResultMsg is sent when a registration attempt completes
type signupResultMsg struct {
	message string
	err     error
}

// loggedOutMsg is sent after the session has been cleared
type loggedOutMsg struct{}

// profileRefreshedMsg is sent when a dashboard refresh completes
type profileRefreshedMsg struct {
	err error
}

// App is the root model for the TUI
type App struct {
	manager    *session.Manager
	screen     Screen
	width      int
	height     int
	notice     string
	lastUpdate time.Time

	// Child models
	loginForm  *authform.Login
	signupForm *authform.Signup
	dash       *dashboard.Dashboard
	chatView   *chat.Chat
	uploadView *upload.Upload
}

// New creates a new TUI application
func New(manager *session.Manager) *App {
	return &App{
		manager: manager,
		screen:  ScreenLoading,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.restoreSession()
}

// restoreSession revalidates any stored token against the backend
func (a *App) restoreSession() tea.Cmd {
	return func() tea.Msg {
		a.manager.Initialize(context.Background())
		return sessionRestoredMsg{authenticated: a.manager.IsAuthenticated()}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dash != nil {
			a.dash.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.chatView != nil {
			a.chatView.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.uploadView != nil {
			a.uploadView.SetSize(a.contentWidth(), a.contentHeight())
		}
		// huh forms need window sizing forwarded
		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenSignup:
			return a.updateSignup(msg)
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenSignup:
			return a.updateSignup(msg)
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenChat:
			return a.updateChat(msg)
		case ScreenUpload:
			return a.updateUpload(msg)
		}
		return a, nil

	case sessionRestoredMsg:
		if msg.authenticated {
			return a.showDashboard()
		}
		return a.showLogin("")

	case authform.LoginSubmittedMsg:
		return a, a.login(msg)

	case authform.SignupSubmittedMsg:
		return a, a.signup(msg)

	case authform.SwitchToSignupMsg:
		return a.showSignup()

	case authform.SwitchToLoginMsg:
		return a.showLogin("")

	case authform.CancelledMsg:
		return a, tea.Quit

	case loginResultMsg:
		if msg.err != nil {
			if a.loginForm != nil {
				a.loginForm.SetServerError(msg.err.Error())
				return a, a.loginForm.Init()
			}
			return a.showLogin(msg.err.Error())
		}
		return a.showDashboard()

	case signupResultMsg:
		if msg.err != nil {
			if a.signupForm != nil {
				a.signupForm.SetServerError(msg.err.Error())
			}
			return a, nil
		}
		// Registration does not sign in; funnel to the login form
		return a.showLogin(msg.message + " Sign in to continue.")

	case loggedOutMsg:
		return a.showLogin("Logged out.")

	case profileRefreshedMsg:
		if msg.err != nil {
			if !a.manager.IsAuthenticated() {
				return a.showLogin("Session expired. Please sign in again.")
			}
			return a, nil
		}
		a.lastUpdate = time.Now()
		if a.dash != nil {
			a.dash.Update(a.manager.CurrentUser())
		}
		return a, nil

	default:
		// Forward unknown messages to the active child (needed for huh form
		// internals, chat replies, and upload ticks)
		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenSignup:
			return a.updateSignup(msg)
		case ScreenChat:
			return a.updateChat(msg)
		case ScreenUpload:
			return a.updateUpload(msg)
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.loginForm == nil {
		return a, nil
	}
	model, cmd := a.loginForm.Update(msg)
	a.loginForm = model.(*authform.Login)
	return a, cmd
}

func (a *App) updateSignup(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.signupForm == nil {
		return a, nil
	}
	model, cmd := a.signupForm.Update(msg)
	a.signupForm = model.(*authform.Signup)
	return a, cmd
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.refreshProfile()
	case "c":
		a.chatView = chat.New(a.contentWidth(), a.contentHeight())
		a.screen = ScreenChat
		return a, a.chatView.Init()
	case "u":
		a.uploadView = upload.New(a.contentWidth(), a.contentHeight())
		a.screen = ScreenUpload
		return a, a.uploadView.Init()
	case "l":
		return a, a.logout()
	}
	return a, nil
}

func (a *App) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.chatView == nil {
		return a, nil
	}
	if _, ok := msg.(chat.BackMsg); ok {
		a.screen = ScreenDashboard
		a.chatView = nil
		return a, nil
	}
	model, cmd := a.chatView.Update(msg)
	a.chatView = model.(*chat.Chat)
	return a, cmd
}

func (a *App) updateUpload(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.uploadView == nil {
		return a, nil
	}
	if _, ok := msg.(upload.BackMsg); ok {
		a.screen = ScreenDashboard
		a.uploadView = nil
		return a, nil
	}
	model, cmd := a.uploadView.Update(msg)
	a.uploadView = model.(*upload.Upload)
	return a, cmd
}

// showLogin transitions to the login screen with an optional notice
func (a *App) showLogin(notice string) (tea.Model, tea.Cmd) {
	a.screen = ScreenLogin
	a.notice = notice
	a.signupForm = nil
	a.dash = nil
	a.loginForm = authform.NewLogin()
	return a, a.loginForm.Init()
}

// showSignup transitions to the registration screen
func (a *App) showSignup() (tea.Model, tea.Cmd) {
	a.screen = ScreenSignup
	a.notice = ""
	a.loginForm = nil
	a.signupForm = authform.NewSignup()
	return a, a.signupForm.Init()
}

// showDashboard transitions to the dashboard for the current user
func (a *App) showDashboard() (tea.Model, tea.Cmd) {
	a.screen = ScreenDashboard
	a.notice = ""
	a.loginForm = nil
	a.signupForm = nil
	a.lastUpdate = time.Now()
	a.dash = dashboard.New(a.manager.CurrentUser(), a.contentWidth(), a.contentHeight())
	return a, nil
}

// login runs the sign-in flow against the backend
func (a *App) login(msg authform.LoginSubmittedMsg) tea.Cmd {
	return func() tea.Msg {
		err := a.manager.Login(context.Background(), msg.Email, msg.Password, msg.Role)
		return loginResultMsg{err: err}
	}
}

// signup registers a new account
func (a *App) signup(msg authform.SignupSubmittedMsg) tea.Cmd {
	return func() tea.Msg {
		resp, err := a.manager.Signup(context.Background(), msg.Data)
		if err != nil {
			return signupResultMsg{err: err}
		}
		return signupResultMsg{message: resp.Message}
	}
}

// logout clears the session and returns to the login screen
func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		a.manager.Logout(context.Background())
		return loggedOutMsg{}
	}
}

// refreshProfile re-fetches the profile for the dashboard
func (a *App) refreshProfile() tea.Cmd {
	return func() tea.Msg {
		err := a.manager.Refresh(context.Background())
		return profileRefreshedMsg{err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLoading:
		content = styles.Subtitle.Render("Checking session...")
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenSignup:
		content = a.viewSignup()
	case ScreenDashboard:
		content = a.viewDashboard()
	case ScreenChat:
		content = a.viewChat()
	case ScreenUpload:
		content = a.viewUpload()
	default:
		content = ""
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	var sb strings.Builder
	if a.notice != "" {
		sb.WriteString(styles.StatusOK.Render(a.notice))
		sb.WriteString("\n\n")
	}
	if a.loginForm != nil {
		sb.WriteString(a.loginForm.View())
	}
	return sb.String()
}

func (a *App) viewSignup() string {
	if a.signupForm != nil {
		return a.signupForm.View()
	}
	return ""
}

// viewDashboard renders the dashboard with an actions pane
func (a *App) viewDashboard() string {
	leftPane := ""
	if a.dash != nil {
		leftPane = styles.ActivePanel.Width(a.contentWidth()).Render(a.dash.View())
	} else {
		leftPane = styles.Panel.Width(a.contentWidth()).Render("Loading...")
	}

	rightContent := styles.Title.Render(icons.App.String()+" Actions") + "\n\n"
	rightContent += icons.Chat.String() + " Ask the assistant\n"
	rightContent += icons.Upload.String() + " Upload documents\n"
	rightContent += icons.Refresh.String() + " Refresh profile\n"
	rightContent += icons.Logout.String() + " Log out\n"
	rightContent += icons.Quit.String() + " Quit\n"
	rightPane := styles.Panel.Width(a.actionsWidth()).Render(rightContent)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

func (a *App) viewChat() string {
	if a.chatView != nil {
		return a.chatView.View()
	}
	return ""
}

func (a *App) viewUpload() string {
	if a.uploadView != nil {
		return a.uploadView.View()
	}
	return ""
}

// contentWidth calculates the width for the main content pane
func (a *App) contentWidth() int {
	if a.width < minTerminalWidth {
		return a.width - panelPadding
	}
	return (a.width - panelPadding) * 2 / 3
}

// actionsWidth calculates the width for the actions pane
func (a *App) actionsWidth() int {
	return a.width - a.contentWidth() - 4
}

// contentHeight calculates the height available for screen content
func (a *App) contentHeight() int {
	// Header, footer, panel borders, and spacing take 8 lines total
	return a.height - 8
}

// renderHeader creates the header bar with app branding and session context
func (a *App) renderHeader() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	icon := icons.App.String()
	title := "MedQuery Portal"

	leftText := fmt.Sprintf(" %s %s", icon, titleStyle.Render(title))

	rightText := ""
	if user := a.manager.CurrentUser(); user != nil {
		rightText = contextStyle.Render(fmt.Sprintf("%s (%s)", user.FullName, user.Role)) + " "
	}

	leftRendered := lipgloss.NewStyle().Render(leftText)
	rightRendered := lipgloss.NewStyle().Align(lipgloss.Right).Render(rightText)

	leftWidth := lipgloss.Width(leftRendered)
	rightWidth := lipgloss.Width(rightRendered)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	header := "╭─" + leftRendered + fill + rightRendered + "─╮"

	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Tab Next", "Enter Submit", "^s Sign up", "Esc Quit"}
	case ScreenSignup:
		shortcuts = []string{"Tab Next", "Enter Submit", "^l Sign in", "Esc Quit"}
	case ScreenDashboard:
		shortcuts = []string{"c Chat", "u Upload", "r Refresh", "l Logout", "q Quit"}
	case ScreenChat:
		shortcuts = []string{"Enter Send", "↑↓ Scroll", "Esc Back"}
	case ScreenUpload:
		shortcuts = []string{"Enter Upload", "Esc Back"}
	default:
		shortcuts = []string{"q Quit"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenDashboard {
		elapsed := formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	footer := "╰─" + leftText + fill + rightText + "─╯"

	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	}

	hours := int(d.Hours())
	if hours == 1 {
		return "1h ago"
	}
	return fmt.Sprintf("%dh ago", hours)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(manager *session.Manager) error {
	app := New(manager)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
