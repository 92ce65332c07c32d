package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroute/internal/core/domain"
)

var (
	searchLimit int
	searchDocs  []string
	searchRoute bool
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed regulation chunks",
	Long: `Embeds the query and returns the most similar article chunks.

The search can be restricted to specific regulations with --doc, or to a
routed set with --route combined with the route command's attribute
flags. Without a restriction all indexed chunks are eligible.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().StringSliceVar(&searchDocs, "doc", nil, "restrict to a CELEX ID (repeatable)")
	searchCmd.Flags().BoolVar(&searchRoute, "route", false, "restrict to the regulations routed from the attribute flags")
	searchCmd.Flags().StringVar(&routeProductType, "product-type", "", "product category for --route")
	searchCmd.Flags().StringSliceVar(&routeIngredients, "ingredient", nil, "ingredient type for --route (repeatable)")
	searchCmd.Flags().StringSliceVar(&routeClaims, "claim", nil, "claim type for --route (repeatable)")
	searchCmd.Flags().StringVar(&routePackaging, "packaging", "", "packaging type for --route")
	searchCmd.Flags().StringSliceVar(&routeKeywords, "keyword", nil, "free keyword for --route (repeatable)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if svc == nil || svc.Query == nil {
		return errors.New("query service not configured")
	}

	documentIDs := searchDocs
	if searchRoute {
		if svc.Routing == nil {
			return errors.New("routing table not configured")
		}
		routed := svc.Routing.Route(routeParams())
		documentIDs = append(documentIDs, routed.CelexIDs...)
	}

	hits, err := svc.Query.Search(cmd.Context(), query, documentIDs, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	return outputSearchTable(cmd, hits)
}

func outputSearchTable(cmd *cobra.Command, hits []domain.SearchHit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, hit := range hits {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, hit.ChunkID, hit.Score)
		cmd.Printf("      %s, Article %s", svc.Catalog.Title(hit.Meta.DocumentID), hit.Meta.ArticleNumber)
		if hit.Meta.ArticleTitle != "" {
			cmd.Printf(" - %s", hit.Meta.ArticleTitle)
		}
		cmd.Println()
		cmd.Printf("      %s\n", snippet(hit.Text, 160))
		cmd.Println()
	}
	return nil
}

// snippet trims text to a display length on a rune boundary.
func snippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
