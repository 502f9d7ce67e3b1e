// ABOUTME: Dashboard command launching the interactive TUI
// ABOUTME: Opens the full-screen portal with login, chat, and upload screens

package cmd

import (
	"github.com/medquery/medquery-cli/internal/tui"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive portal",
	Long: `Launch the full-screen interactive MedQuery portal.

Restores any stored session, or presents the sign-in form. Once signed in,
the dashboard shows a role-specific overview with access to the medical
assistant chat and document upload.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, mgr := newSession()
		return tui.Run(mgr)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
