// backend/commands/ingest.go
package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <target>",
	Short: "Merges and cleans the raw season files of a target, e.g. games.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		result, err := svc.RunIngestion(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}
