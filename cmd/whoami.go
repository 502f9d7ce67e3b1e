// ABOUTME: Whoami command for the medquery CLI
// ABOUTME: Revalidates the persisted token and shows the confirmed profile

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medquery/medquery-cli/internal/client"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session profile",
	Long: `Revalidate the persisted session token and display the server-confirmed profile.

An expired or invalid token is removed from storage.

Exit codes:
  0 - Authenticated
  1 - Not logged in
  2 - Error (connectivity, configuration)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami executes the profile lookup and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	_, mgr := newSession()

	mgr.Initialize(ctx)
	if !mgr.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run 'medquery login' to sign in.")
		return 1
	}

	profile := mgr.CurrentUser()

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(profile, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintln(w, formatProfileHuman(profile))
	if expiry, err := client.TokenExpiry(mgr.Token()); err == nil {
		fmt.Fprintf(w, "Session expires: %s\n", expiry.Local().Format(time.RFC1123))
	}
	return 0
}

// formatProfileHuman formats a profile for human readability
func formatProfileHuman(p *client.Profile) string {
	out := fmt.Sprintf(`Name:  %s
Email: %s
Role:  %s`, p.FullName, p.Email, p.Role)

	if p.LicenseNumber != "" {
		out += fmt.Sprintf("\nLicense: %s", p.LicenseNumber)
	}
	if p.Institution != "" {
		out += fmt.Sprintf("\nInstitution: %s", p.Institution)
	}
	if p.Specialization != "" {
		out += fmt.Sprintf("\nSpecialization: %s", p.Specialization)
	}
	return out
}
