// ABOUTME: Status command for the medquery CLI
// ABOUTME: Fetches backend health and session profile concurrently

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/medquery/medquery-cli/internal/client"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend health and session state",
	Long:  `Check the MedQuery backend health and the current session in a single call.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runStatus(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// runStatus fetches health and profile in parallel and returns exit code
func runStatus(ctx context.Context, w io.Writer) int {
	c, mgr := newSession()

	var health *client.HealthResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := c.Health(gctx)
		if err != nil {
			return err
		}
		health = resp
		return nil
	})
	g.Go(func() error {
		// A rejected or missing token just means no session; only the
		// health check decides command success
		mgr.Initialize(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	profile := mgr.CurrentUser()

	if IsJSONOutput() {
		output := map[string]interface{}{
			"backend": GetAPIURL(),
			"service": health.Service,
			"status":  health.Status,
			"session": mgr.State().String(),
		}
		if profile != nil {
			output["user"] = profile
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintf(w, "Backend: %s\n", GetAPIURL())
	fmt.Fprintf(w, "Service: %s (%s)\n", health.Service, health.Status)
	if profile != nil {
		fmt.Fprintf(w, "Session: %s (%s)\n", profile.FullName, profile.Role)
	} else {
		fmt.Fprintln(w, "Session: not logged in")
	}
	return 0
}
