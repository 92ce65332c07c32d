package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "List the regulation corpus by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if svc == nil || svc.Catalog == nil {
			return errors.New("catalog not configured")
		}

		for _, key := range svc.Catalog.CategoryKeys() {
			ids := svc.Catalog.ByCategory(key)
			if len(ids) == 0 {
				continue
			}
			cmd.Printf("%s\n", svc.Catalog.Categories[key])
			for _, id := range ids {
				cmd.Printf("  %s  %s\n", id, svc.Catalog.Title(id))
			}
			cmd.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(corpusCmd)
}
