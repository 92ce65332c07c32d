package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroute/internal/core/domain"
)

var (
	routeProductType string
	routeIngredients []string
	routeClaims      []string
	routePackaging   string
	routeKeywords    []string
	routeJSON        bool
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Map product attributes to applicable regulations",
	Long: `Routes structured product attributes to the EU regulations that
apply, with a reason for every inclusion.

With no attributes, only the always-included foundational regulations
are returned. Attribute values that match nothing contribute nothing;
that is not an error.`,
	Args: cobra.NoArgs,
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().StringVar(&routeProductType, "product-type", "", "product category, e.g. \"novel food\"")
	routeCmd.Flags().StringSliceVar(&routeIngredients, "ingredient", nil, "ingredient type (repeatable)")
	routeCmd.Flags().StringSliceVar(&routeClaims, "claim", nil, "claim type (repeatable)")
	routeCmd.Flags().StringVar(&routePackaging, "packaging", "", "packaging type")
	routeCmd.Flags().StringSliceVar(&routeKeywords, "keyword", nil, "free keyword (repeatable)")
	routeCmd.Flags().BoolVar(&routeJSON, "json", false, "output the routing result as JSON")
	rootCmd.AddCommand(routeCmd)
}

func routeParams() domain.RouteParams {
	return domain.RouteParams{
		ProductType: routeProductType,
		Ingredients: routeIngredients,
		Claims:      routeClaims,
		Packaging:   routePackaging,
		Keywords:    routeKeywords,
	}
}

func runRoute(cmd *cobra.Command, _ []string) error {
	if svc == nil || svc.Routing == nil {
		return errors.New("routing table not configured")
	}

	result := svc.Routing.Route(routeParams())

	if routeJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	return outputRoutingTable(cmd, result)
}

func outputRoutingTable(cmd *cobra.Command, result *domain.RoutingResult) error {
	cmd.Printf("%d regulations apply:\n\n", len(result.CelexIDs))

	for _, celex := range result.CelexIDs {
		cmd.Printf("  %s  %s\n", celex, svc.Catalog.Title(celex))
		for _, reason := range result.Reasons[celex] {
			cmd.Printf("      - %s\n", reason)
		}
	}
	return nil
}
