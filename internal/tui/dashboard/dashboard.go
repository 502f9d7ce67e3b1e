// ABOUTME: Dashboard component showing the signed-in user's portal overview
// ABOUTME: Renders role-specific panels for doctor, researcher, patient, and admin

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/medquery/medquery-cli/internal/client"
	"github.com/medquery/medquery-cli/internal/session"
	"github.com/medquery/medquery-cli/internal/tui/icons"
	"github.com/medquery/medquery-cli/internal/tui/styles"
	"github.com/medquery/medquery-cli/internal/tui/widgets"
)

// Dashboard displays the role-specific portal overview
type Dashboard struct {
	profile *client.Profile
	width   int
	height  int
}

// New creates a new dashboard for the given profile
func New(profile *client.Profile, width, height int) *Dashboard {
	return &Dashboard{
		profile: profile,
		width:   width,
		height:  height,
	}
}

// Update refreshes the dashboard with a new profile
func (d *Dashboard) Update(profile *client.Profile) {
	d.profile = profile
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.profile == nil {
		return styles.Panel.Width(d.width).Render("Loading profile...")
	}

	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Welcome, " + d.profile.FullName))
	sb.WriteString("\n")
	sb.WriteString(widgets.RoleBadge(d.profile.Role))
	sb.WriteString("\n\n")

	if d.profile.Institution != "" {
		sb.WriteString(fmt.Sprintf("Institution: %s\n", d.profile.Institution))
	}
	if d.profile.Specialization != "" {
		sb.WriteString(fmt.Sprintf("Specialization: %s\n", d.profile.Specialization))
	}
	if d.profile.LicenseNumber != "" {
		sb.WriteString(fmt.Sprintf("License: %s\n", d.profile.LicenseNumber))
	}
	sb.WriteString("\n")

	switch d.profile.Role {
	case session.RoleDoctor:
		sb.WriteString(d.viewDoctor())
	case session.RoleResearcher:
		sb.WriteString(d.viewResearcher())
	case session.RoleAdmin:
		sb.WriteString(d.viewAdmin())
	default:
		sb.WriteString(d.viewPatient())
	}

	return lipgloss.NewStyle().
		Width(d.width).
		Height(d.height).
		Render(sb.String())
}

// viewDoctor renders the clinical overview panels
func (d *Dashboard) viewDoctor() string {
	cfg := widgets.DefaultMetricBlockConfig()

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Users, "Patients", 24, "active this week", cfg),
		" ",
		widgets.CountBlock(icons.Calendar, "Consults", 6, "scheduled today", cfg),
		" ",
		widgets.CountBlock(icons.Document, "Reports", 3, "awaiting review", cfg),
	)

	var sb strings.Builder
	sb.WriteString(row)
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render("Recent activity"))
	sb.WriteString("\n")
	sb.WriteString("  " + widgets.StatusText("Lab results uploaded for J. Okafor", widgets.StatusInfo) + "\n")
	sb.WriteString("  " + widgets.StatusText("Consultation notes signed", widgets.StatusOK) + "\n")
	sb.WriteString("  " + widgets.StatusText("2 referrals pending approval", widgets.StatusWarning) + "\n")
	return sb.String()
}

// viewResearcher renders the research overview panels
func (d *Dashboard) viewResearcher() string {
	cfg := widgets.DefaultMetricBlockConfig()

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Chart, "Studies", 4, "in progress", cfg),
		" ",
		widgets.CountBlock(icons.Document, "Datasets", 12, "available", cfg),
		" ",
		widgets.CountBlock(icons.Users, "Cohorts", 7, "enrolled", cfg),
	)

	var sb strings.Builder
	sb.WriteString(row)
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render("Study enrollment"))
	sb.WriteString("\n")
	sb.WriteString("  Hypertension cohort  " + styles.ProgressBar(72, 20) + " 72%\n")
	sb.WriteString("  Cardiology trial     " + styles.ProgressBar(45, 20) + " 45%\n")
	return sb.String()
}

// viewPatient renders the patient overview panels
func (d *Dashboard) viewPatient() string {
	cfg := widgets.DefaultMetricBlockConfig()

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Document, "Records", 8, "on file", cfg),
		" ",
		widgets.CountBlock(icons.Calendar, "Visits", 2, "upcoming", cfg),
		" ",
		widgets.CountBlock(icons.Chat, "Messages", 1, "unread", cfg),
	)

	var sb strings.Builder
	sb.WriteString(row)
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render("Upcoming appointments"))
	sb.WriteString("\n")
	sb.WriteString("  " + widgets.StatusText("Annual checkup, Tue 10:00", widgets.StatusInfo) + "\n")
	sb.WriteString("  " + widgets.StatusText("Blood panel, Fri 08:30", widgets.StatusInfo) + "\n")
	return sb.String()
}

// viewAdmin renders the administration overview panels
func (d *Dashboard) viewAdmin() string {
	cfg := widgets.DefaultMetricBlockConfig()

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Users, "Users", 148, "registered", cfg),
		" ",
		widgets.CountBlock(icons.CheckOK, "Uptime", 99, "percent 30d", cfg),
		" ",
		widgets.CountBlock(icons.Warning, "Alerts", 2, "open", cfg),
	)

	var sb strings.Builder
	sb.WriteString(row)
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render("System status"))
	sb.WriteString("\n")
	sb.WriteString("  " + widgets.StatusText("Identity service healthy", widgets.StatusOK) + "\n")
	sb.WriteString("  " + widgets.StatusText("Storage at 81% capacity", widgets.StatusWarning) + "\n")
	return sb.String()
}
