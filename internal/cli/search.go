package cli

import (
	"strings"

	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/raphaelgruber/botdash/internal/models"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the web or look up a person",
	Long: `Search through the backend.

Examples:
  botdash search web "CVE-2021-44228 mitigation"
  botdash search person "Ada Lovelace"`,
}

var searchWebCmd = &cobra.Command{
	Use:   "web <query>",
	Short: "Run a web search",
	Args:  cobra.MinimumNArgs(1),
	RunE:  searchRunner(models.SearchWeb),
}

var searchPersonCmd = &cobra.Command{
	Use:   "person <name>",
	Short: "Look up public information about a person",
	Args:  cobra.MinimumNArgs(1),
	RunE:  searchRunner(models.SearchPerson),
}

func init() {
	searchCmd.AddCommand(searchWebCmd)
	searchCmd.AddCommand(searchPersonCmd)
}

func searchRunner(mode models.SearchMode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		d := dashboard.NewSearchDispatcher(apiClient, dashboard.WithLogger(logger))
		results, err := d.Search(cmd.Context(), mode, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printSearchResults(cmd.OutOrStdout(), results)
		return nil
	}
}
