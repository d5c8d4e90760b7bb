// Package cli provides the command-line interface for botdash.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/botdash/internal/client"
	"github.com/raphaelgruber/botdash/internal/config"
	"github.com/raphaelgruber/botdash/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose    bool
	backendURL string

	// Global config and API client
	cfg        config.Config
	apiClient  *client.Client
	collector  *metrics.Collector
	logger     *slog.Logger
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "botdash",
	Short: "Dashboard and CLI for the bot integration backend",
	Long: `botdash monitors and operates the bot integration backend: system status,
dataset uploads, web and person search, Telegram and OpenAI credentials,
and the assistant chat.

Run 'botdash dashboard' for the interactive terminal UI, or use the
subcommands for scripting.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if backendURL != "" {
			cfg.BackendURL = backendURL
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		if cmd.Name() == "dashboard" {
			// The terminal UI owns the screen; log to the file only.
			logger, logCleanup = config.SetupFileLogger(cfg.LogFile, level)
		} else {
			logger, logCleanup = config.SetupLogger(cfg.LogFile, level)
		}
		slog.SetDefault(logger)

		collector = metrics.NewCollector()
		apiClient = client.New(cfg.BackendURL,
			client.WithLogger(logger),
			client.WithMetrics(collector),
			client.WithTimeout(cfg.Timeout),
		)
		logger.Debug("client configured", "backend", apiClient.BaseURL(), "timeout", cfg.Timeout)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and runs it. The
// command context is cancelled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend URL (overrides BOTDASH_BACKEND_URL)")

	// Add subcommands
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(checksCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dashboardCmd)
}
