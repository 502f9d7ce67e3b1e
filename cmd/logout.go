// ABOUTME: Logout command for the medquery CLI
// ABOUTME: Clears the persisted session, notifying the backend best-effort

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the MedQuery portal",
	Long: `Clear the persisted session token.

The backend is notified best-effort; the local session is cleared regardless
of the network outcome, so logout always succeeds.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		runLogout(ctx, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears the session. It cannot fail.
func runLogout(ctx context.Context, w io.Writer) {
	_, mgr := newSession()

	// Revalidates the stored token so a live session also notifies the
	// backend; an invalid token is simply discarded
	mgr.Initialize(ctx)
	mgr.Logout(ctx)

	fmt.Fprintln(w, "Logged out.")
}
