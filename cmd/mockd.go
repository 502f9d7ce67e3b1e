// ABOUTME: Mockd command running a local mock of the MedQuery identity API
// ABOUTME: Serves /auth endpoints in-memory for offline development and testing

package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medquery/medquery-cli/internal/mockserver"
	"github.com/spf13/cobra"
)

var (
	mockdPort        string
	mockdSecret      string
	mockdExpiryMins  int
	mockdSeedDemo    bool
	mockdRateLimited bool
)

var mockdCmd = &cobra.Command{
	Use:   "mockd",
	Short: "Run a local mock identity server",
	Long: `Run an in-memory mock of the MedQuery identity API on localhost.

Useful for offline development and demos. With --seed-demo (default), one
account per role is created; all use password 'demo123':
  demo@medquery.com        doctor
  researcher@medquery.com  researcher
  patient@medquery.com     patient
  admin@medquery.com       admin

Point the CLI at it with --api-url http://localhost:<port>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMockd()
	},
}

func init() {
	rootCmd.AddCommand(mockdCmd)
	mockdCmd.Flags().StringVar(&mockdPort, "port", "8000", "Port to listen on")
	mockdCmd.Flags().StringVar(&mockdSecret, "jwt-secret", "", "HS256 signing secret (random default)")
	mockdCmd.Flags().IntVar(&mockdExpiryMins, "token-expiry", 30, "Access token lifetime in minutes")
	mockdCmd.Flags().BoolVar(&mockdSeedDemo, "seed-demo", true, "Seed one demo account per role")
	mockdCmd.Flags().BoolVar(&mockdRateLimited, "rate-limit", true, "Rate-limit signup/login per client IP")
}

// runMockd serves the mock identity API until interrupted
func runMockd() error {
	opts := mockserver.Options{
		JWTSecret:   mockdSecret,
		TokenExpiry: time.Duration(mockdExpiryMins) * time.Minute,
		SeedDemo:    mockdSeedDemo,
	}
	if mockdRateLimited {
		opts.LoginRPS = 5
		opts.LoginBurst = 10
	}

	srv, err := mockserver.New(opts)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:    ":" + mockdPort,
		Handler: srv,
	}

	go func() {
		slog.Info("mock identity server starting", "port", mockdPort, "seeded", mockdSeedDemo)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down mock server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}
