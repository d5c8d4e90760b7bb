package cli

import (
	"errors"
	"fmt"

	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/spf13/cobra"
)

var (
	uploadName        string
	uploadDescription string
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List or upload datasets",
	Long: `List the datasets known to the backend, or upload a new one.

Examples:
  botdash datasets list
  botdash datasets upload phishing.csv --name phishing --description "labelled emails"`,
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	Args:  cobra.NoArgs,
	RunE:  runDatasetsList,
}

var datasetsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a dataset file",
	Long: `Upload a dataset file with a name and description. All three are
required. The dataset list is refreshed after a successful upload; new
datasets start as pending while the backend processes them.`,
	Args: cobra.ExactArgs(1),
	RunE: runDatasetsUpload,
}

func init() {
	datasetsUploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "dataset name")
	datasetsUploadCmd.Flags().StringVarP(&uploadDescription, "description", "d", "", "dataset description")

	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsUploadCmd)
}

func runDatasetsList(cmd *cobra.Command, args []string) error {
	ctrl := dashboard.NewDatasetUploadController(apiClient, dashboard.WithLogger(logger))
	if err := ctrl.Activate(cmd.Context()); err != nil {
		return err
	}
	printDatasets(cmd.OutOrStdout(), ctrl.State().Datasets)
	return nil
}

func runDatasetsUpload(cmd *cobra.Command, args []string) error {
	file, err := dashboard.FileFromPath(args[0])
	if err != nil {
		return err
	}

	ctrl := dashboard.NewDatasetUploadController(apiClient, dashboard.WithLogger(logger))
	ctrl.SetName(uploadName)
	ctrl.SetDescription(uploadDescription)
	ctrl.SetFile(file)

	out := cmd.OutOrStdout()
	err = ctrl.Submit(cmd.Context())
	st := ctrl.State()
	printMessage(out, st.Message)
	if err != nil {
		if errors.Is(err, dashboard.ErrInvalidDraft) {
			return fmt.Errorf("upload %s: %w (use --name and --description)", file.Name, err)
		}
		return err
	}

	if st.Loaded {
		fmt.Fprintln(out)
		printDatasets(out, st.Datasets)
	}
	return nil
}
