package cli

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask the backend assistant a question",
	Long: `Ask the backend's cybersecurity assistant a single question.

Requires the OpenAI integration to be configured on the backend.

Examples:
  botdash chat "How do I detect credential stuffing?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	chat := dashboard.NewChat(apiClient, dashboard.WithLogger(logger))
	answer, err := chat.Ask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		printMessage(cmd.OutOrStdout(), chat.State().Message)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
