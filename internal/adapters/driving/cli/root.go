// Package cli implements the lexroute command-line interface using
// cobra. Commands are thin adapters: they parse flags, call the core
// services injected via SetServices, and format output as a table or
// JSON.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroute/internal/catalog"
	"github.com/custodia-labs/lexroute/internal/core/domain"
	"github.com/custodia-labs/lexroute/internal/core/services"
	"github.com/custodia-labs/lexroute/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services holds the core services the commands dispatch to.
type Services struct {
	Catalog  *catalog.Catalog
	Entities *domain.EntityIndex
	Ingest   *services.IngestService
	Routing  *services.RoutingTable
	Query    *services.QueryService
}

var svc *Services

// SetServices injects the core services. Must be called before Execute.
func SetServices(s *Services) {
	svc = s
}

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "lexroute",
	Short: "Route food-law questions to the right EU regulations",
	Long: `lexroute ingests a fixed corpus of EU food regulations, extracts
defined terms and cross-references, and builds a semantic index over
article chunks.

Structured product attributes route deterministically to the applicable
regulations; free-text queries search the indexed chunks, optionally
restricted to a routed document set.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
