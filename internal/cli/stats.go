package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/raphaelgruber/botdash/internal/metrics"
	"github.com/spf13/cobra"
)

var statsRounds int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Probe the read endpoints and show call statistics",
	Long: `Call each read-only endpoint (ping, status, status checks, datasets)
--rounds times and show per-endpoint latency and failure counts.

Examples:
  botdash stats
  botdash stats --rounds 10`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&statsRounds, "rounds", "n", 3, "calls per endpoint")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsRounds < 1 {
		return fmt.Errorf("invalid --rounds %d: must be at least 1", statsRounds)
	}

	probes := []func(context.Context) error{
		func(ctx context.Context) error { _, err := apiClient.Ping(ctx); return err },
		func(ctx context.Context) error { _, err := apiClient.GetStatus(ctx); return err },
		func(ctx context.Context) error { _, err := apiClient.ListStatusChecks(ctx); return err },
		func(ctx context.Context) error { _, err := apiClient.ListDatasets(ctx); return err },
	}

	ctx := cmd.Context()
	for range statsRounds {
		for _, probe := range probes {
			if err := probe(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Debug("probe failed", "error", err)
			}
		}
	}

	printStats(cmd.OutOrStdout(), apiClient.BaseURL(), collector.Snapshot())
	return nil
}

// printStats displays per-operation call statistics.
func printStats(w io.Writer, backend string, snap metrics.Snapshot) {
	fmt.Fprintf(w, "API Statistics (%s)\n", backend)
	fmt.Fprintf(w, "═══════════════════════════════════════════════\n")
	fmt.Fprintf(w, "Elapsed: %.1f seconds\n", snap.UptimeSeconds)

	for _, op := range snap.Operations {
		fmt.Fprintf(w, "\n%s:\n", op.Operation)
		printOpStats(w, op)
	}
}

// printOpStats displays timing statistics for an operation.
func printOpStats(w io.Writer, op metrics.OperationSnapshot) {
	fmt.Fprintf(w, "  Calls: %d, Failures: %d, Total: %dms\n", op.Count, op.Failures, op.TotalTimeMs)
	fmt.Fprintf(w, "  Time: avg %.1fms, min %dms, max %dms\n",
		op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
}
