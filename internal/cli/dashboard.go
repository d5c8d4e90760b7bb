package cli

import (
	"github.com/raphaelgruber/botdash/internal/tui"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the interactive terminal dashboard",
	Long: `Open the terminal dashboard with four tabs: Dashboard (status and
status checks), Datasets, Search and Configuration.

Logs go to BOTDASH_LOG_FILE only while the dashboard is open.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	return tui.Run(cmd.Context(), tui.Options{
		Client:       apiClient,
		Metrics:      collector,
		Logger:       logger,
		PollInterval: cfg.PollInterval,
		ClientName:   cfg.ClientName,
	})
}
