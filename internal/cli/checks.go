package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/spf13/cobra"
)

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List or record status checks",
	Long: `List the status checks recorded on the backend, or record a new one.

Examples:
  botdash checks list
  botdash checks record
  botdash checks record ops-laptop`,
}

var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded status checks",
	Args:  cobra.NoArgs,
	RunE:  runChecksList,
}

var checksRecordCmd = &cobra.Command{
	Use:   "record [client-name]",
	Short: "Record a status check",
	Long: `Record a status check for client-name. Without an argument the name
comes from BOTDASH_CLIENT_NAME, or a generated botdash-<id> name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChecksRecord,
}

func init() {
	checksCmd.AddCommand(checksListCmd)
	checksCmd.AddCommand(checksRecordCmd)
}

func runChecksList(cmd *cobra.Command, args []string) error {
	checks := dashboard.NewStatusChecks(apiClient, dashboard.WithLogger(logger))
	if err := checks.Load(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	records := checks.State().Checks
	if len(records) == 0 {
		fmt.Fprintln(out, "No status checks found")
		return nil
	}

	fmt.Fprintf(out, "%-38s %-24s %s\n", "ID", "CLIENT", "TIMESTAMP")
	fmt.Fprintln(out, "------------------------------------------------------------------------------------")
	for _, rec := range records {
		fmt.Fprintf(out, "%-38s %-24s %s\n", rec.ID, truncate(rec.ClientName, 24), rec.Timestamp.Format(time.RFC3339))
	}
	return nil
}

func runChecksRecord(cmd *cobra.Command, args []string) error {
	name := cfg.ClientName
	if len(args) == 1 {
		name = args[0]
	}
	if name == "" {
		name = "botdash-" + uuid.New().String()[:8] // Short ID for convenience
	}

	checks := dashboard.NewStatusChecks(apiClient, dashboard.WithLogger(logger))
	rec, err := checks.Record(cmd.Context(), name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded check %s for %s at %s\n", rec.ID, rec.ClientName, rec.Timestamp.Format(time.RFC3339))
	return nil
}
