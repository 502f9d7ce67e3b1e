// ABOUTME: Signup command for the medquery CLI
// ABOUTME: Validates the registration form and submits it to the backend

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/medquery/medquery-cli/internal/client"
	"github.com/medquery/medquery-cli/internal/session"
	"github.com/spf13/cobra"
)

var signupData session.SignupData

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a MedQuery account",
	Long: `Register a new account with the MedQuery portal.

All fields are validated locally before anything is sent to the backend.
Signup does not log you in: run 'medquery login' after your account is created.

Exit codes:
  0 - Account created
  1 - Validation failed or registration rejected
  2 - Error (connectivity, configuration)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSignup(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVar(&signupData.FullName, "name", "", "Full name")
	signupCmd.Flags().StringVar(&signupData.Email, "email", "", "Email address")
	signupCmd.Flags().StringVar(&signupData.Password, "password", "", "Password (prompted if omitted)")
	signupCmd.Flags().StringVar(&signupData.Role, "role", "", "Portal role: doctor, researcher, patient, admin")
	signupCmd.Flags().StringVar(&signupData.LicenseNumber, "license", "", "Medical license number (doctor/researcher)")
	signupCmd.Flags().StringVar(&signupData.Institution, "institution", "", "Institution or hospital name")
	signupCmd.Flags().StringVar(&signupData.Specialization, "specialization", "", "Medical specialization")
	signupCmd.Flags().BoolVar(&signupData.AgreeToTerms, "accept-terms", false, "Accept the terms and conditions")
	signupCmd.Flags().BoolVar(&signupData.AgreeToHipaa, "accept-hipaa", false, "Acknowledge the HIPAA privacy practices")
}

// runSignup executes the registration flow and returns exit code
func runSignup(ctx context.Context, w io.Writer) int {
	if signupData.Password == "" {
		if err := promptSignupPassword(&signupData); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	} else if signupData.ConfirmPassword == "" {
		// Password given via flag counts as its own confirmation
		signupData.ConfirmPassword = signupData.Password
	}

	_, mgr := newSession()

	resp, err := mgr.Signup(ctx, &signupData)
	if err != nil {
		var fieldErrs session.FieldErrors
		if errors.As(err, &fieldErrs) {
			fmt.Fprintln(w, "Please correct the following:")
			printFieldErrors(w, fieldErrs)
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return 1
		}
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, resp.Message)
		fmt.Fprintln(w, "Run 'medquery login' to sign in.")
	}
	return 0
}

// promptSignupPassword asks for password and confirmation without echo
func promptSignupPassword(data *session.SignupData) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				Description("Min 8 characters with uppercase, lowercase, and a number").
				EchoMode(huh.EchoModePassword).
				Value(&data.Password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&data.ConfirmPassword),
		),
	).WithTheme(huh.ThemeBase())
	return form.Run()
}

// printFieldErrors writes field errors one per line, sorted by field
func printFieldErrors(w io.Writer, errs session.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, errs[f])
	}
}
