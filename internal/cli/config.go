package cli

import (
	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/raphaelgruber/botdash/internal/models"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure backend integrations",
	Long: `Send integration credentials to the backend.

The credential may be given as an argument. Otherwise it is read from the
terminal without echo, or from the first line of standard input.

Examples:
  botdash config telegram
  botdash config openai < key.txt`,
}

var configTelegramCmd = &cobra.Command{
	Use:   "telegram [token]",
	Short: "Configure the Telegram bot token",
	Args:  cobra.MaximumNArgs(1),
	RunE:  configRunner(models.IntegrationTelegram, "Telegram bot token: "),
}

var configOpenAICmd = &cobra.Command{
	Use:   "openai [api-key]",
	Short: "Configure the OpenAI API key",
	Args:  cobra.MaximumNArgs(1),
	RunE:  configRunner(models.IntegrationOpenAI, "OpenAI API key: "),
}

func init() {
	configCmd.AddCommand(configTelegramCmd)
	configCmd.AddCommand(configOpenAICmd)
}

func configRunner(integration models.Integration, prompt string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var credential string
		if len(args) == 1 {
			credential = args[0]
		} else {
			var err error
			if credential, err = readSecret(cmd, prompt); err != nil {
				return err
			}
		}

		submitter := dashboard.NewConfigurationSubmitter(apiClient, dashboard.WithLogger(logger))
		flow, err := submitter.Flow(integration)
		if err != nil {
			return err
		}
		flow.SetInput(credential)
		err = flow.Submit(cmd.Context())
		printMessage(cmd.OutOrStdout(), flow.State().Message)
		return err
	}
}
