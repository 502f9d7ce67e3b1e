// ABOUTME: Root command for the medquery CLI
// ABOUTME: Handles global flags and shared session wiring

package cmd

import (
	"os"

	"github.com/medquery/medquery-cli/internal/client"
	"github.com/medquery/medquery-cli/internal/config"
	"github.com/medquery/medquery-cli/internal/logger"
	"github.com/medquery/medquery-cli/internal/session"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "medquery",
	Short: "CLI for the MedQuery medical-information portal",
	Long: `medquery is a terminal client for the MedQuery medical-information portal.

It manages your authenticated session with the MedQuery backend and provides
role-based dashboards, the AI assistant chat, and document upload from the terminal.

Environment Variables:
  MEDQUERY_API_URL       Backend API URL (default: http://localhost:8000)
  MEDQUERY_CONFIG_DIR    Directory for persisted session state
  MEDQUERY_HTTP_TIMEOUT  Request timeout in seconds (default: 30)`,
}

// Execute runs the root command
func Execute() error {
	logger.Init()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides MEDQUERY_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("MEDQUERY_API_URL"); envURL != "" {
		return envURL
	}
	return config.DefaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newSession builds the API client and session manager shared by commands
func newSession() (*client.Client, *session.Manager) {
	// Load() reads .env first, so GetAPIURL sees values defined there
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{
			APIURL:    config.DefaultAPIURL,
			ConfigDir: config.DefaultConfigDir(),
		}
	}

	url := GetAPIURL()

	var c *client.Client
	if cfg.HTTPTimeout > 0 {
		c = client.NewWithTimeout(url, cfg.HTTPTimeout)
	} else {
		c = client.New(url)
	}

	store := session.NewFileStore(cfg.ConfigDir)
	return c, session.NewManager(c, store)
}
