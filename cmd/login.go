// ABOUTME: Login command for the medquery CLI
// ABOUTME: Authenticates against the identity endpoint and persists the session token

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/medquery/medquery-cli/internal/client"
	"github.com/medquery/medquery-cli/internal/session"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	loginRole     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the MedQuery portal",
	Long: `Authenticate against the MedQuery identity endpoint and persist the session token.

The password is prompted interactively when not given via --password.
The role confirmed by the server is authoritative over the role selected here.

Exit codes:
  0 - Logged in
  1 - Authentication rejected or invalid input
  2 - Error (connectivity, configuration)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted if omitted)")
	loginCmd.Flags().StringVar(&loginRole, "role", session.RoleDoctor, "Portal role: doctor, researcher, patient, admin")
}

// runLogin executes the login flow and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	if loginEmail == "" {
		fmt.Fprintln(w, "Error: --email is required")
		return 2
	}
	if !session.ValidRole(loginRole) {
		fmt.Fprintf(w, "Error: invalid role %q (valid: doctor, researcher, patient, admin)\n", loginRole)
		return 2
	}

	password := loginPassword
	if password == "" {
		if err := promptPassword(&password); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	_, mgr := newSession()

	if err := mgr.Login(ctx, loginEmail, password, loginRole); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return loginExitCode(err)
	}

	profile := mgr.CurrentUser()
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(profile, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Logged in as %s (%s)\n", profile.FullName, profile.Role)
		if profile.Role != loginRole {
			fmt.Fprintf(w, "Note: server confirmed role %q, not the selected %q\n", profile.Role, loginRole)
		}
	}
	return 0
}

// promptPassword asks for the password without echoing input
func promptPassword(password *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password),
		),
	).WithTheme(huh.ThemeBase())
	return form.Run()
}

// loginExitCode maps an error to the command exit code: rejected credentials
// and bad input are 1, transport and everything else is 2
func loginExitCode(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return 1
	}
	if errors.Is(err, session.ErrMissingCredentials) || errors.Is(err, session.ErrOperationInFlight) {
		return 1
	}
	return 2
}
