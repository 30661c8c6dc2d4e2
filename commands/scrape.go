// backend/commands/scrape.go
package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var scrapeYears *string

func init() {
	scrapeYears = scrapeCmd.Flags().String("years", "", `Seasons to scrape, e.g. "2019-2021,2023". Defaults to scraper.years.`)
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <target> [--years <list>]",
	Short: "Downloads the season tables of a target into the input directory.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		result, err := svc.RunScrape(cmd.Context(), args[0], *scrapeYears)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}
