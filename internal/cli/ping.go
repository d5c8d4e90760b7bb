package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	msg, err := apiClient.Ping(cmd.Context())
	if err != nil {
		return fmt.Errorf("ping %s: %w", apiClient.BaseURL(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", apiClient.BaseURL(), msg)
	return nil
}
