package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

var (
	termsDoc  string
	termsJSON bool
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "List defined terms extracted from the corpus",
	Long: `Lists the legally defined terms extracted during ingestion.

Without flags, prints the unique normalized terms. With --doc, prints
the terms a single regulation defines together with their definition
snippets.`,
	Args: cobra.NoArgs,
	RunE: runTerms,
}

func init() {
	termsCmd.Flags().StringVar(&termsDoc, "doc", "", "show terms defined by one CELEX ID")
	termsCmd.Flags().BoolVar(&termsJSON, "json", false, "output terms as JSON")
	rootCmd.AddCommand(termsCmd)
}

func runTerms(cmd *cobra.Command, _ []string) error {
	if svc == nil || svc.Entities == nil {
		return errors.New("entity index not configured")
	}

	if termsDoc != "" {
		return outputDocumentTerms(cmd, termsDoc)
	}

	terms := svc.Entities.UniqueTerms()

	if termsJSON {
		data, err := json.MarshalIndent(terms, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	if len(terms) == 0 {
		cmd.Println("No terms extracted. Run 'lexroute ingest' first.")
		return nil
	}
	for _, term := range terms {
		cmd.Println(term)
	}
	return nil
}

func outputDocumentTerms(cmd *cobra.Command, celexID string) error {
	terms := svc.Entities.DocumentTerms()[celexID]

	if termsJSON {
		data, err := json.MarshalIndent(terms, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	if len(terms) == 0 {
		cmd.Printf("No terms defined by %s.\n", celexID)
		return nil
	}

	cmd.Printf("%s defines %d terms:\n\n", svc.Catalog.Title(celexID), len(terms))
	for _, t := range terms {
		cmd.Printf("  %q (Article %s)\n", t.Term, t.ArticleNumber)
		cmd.Printf("      %s\n", t.Snippet)
	}
	return nil
}
