package cli

import (
	"fmt"
	"time"

	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/raphaelgruber/botdash/internal/models"
	"github.com/spf13/cobra"
)

var (
	statusWatch    bool
	statusInterval time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show application, integration and database status",
	Long: `Show the aggregate backend status.

With --watch the status is polled every interval (default from
BOTDASH_POLL_INTERVAL, 30s) until interrupted. Failed polls are logged and
the previous status is kept.

Examples:
  botdash status
  botdash status --watch
  botdash status --watch --interval 5s`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "keep polling until interrupted")
	statusCmd.Flags().DurationVar(&statusInterval, "interval", 0, "poll interval for --watch")
}

func runStatus(cmd *cobra.Command, args []string) error {
	interval := statusInterval
	if interval <= 0 {
		interval = cfg.PollInterval
	}
	monitor := dashboard.NewStatusMonitor(apiClient, interval, dashboard.WithLogger(logger))
	out := cmd.OutOrStdout()

	if !statusWatch {
		if err := monitor.Refresh(cmd.Context()); err != nil {
			return err
		}
		printStatus(out, monitor.Snapshot(), monitor.LastPolled())
		return nil
	}

	monitor.OnUpdate(func(snap models.StatusSnapshot) {
		printStatus(out, snap, time.Now())
		fmt.Fprintln(out)
	})
	stop := monitor.Start(cmd.Context())
	<-cmd.Context().Done()
	stop()
	return nil
}
