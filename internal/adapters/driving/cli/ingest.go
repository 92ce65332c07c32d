package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexroute/internal/core/services"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch, parse and index the regulation corpus",
	Long: `Runs the full ingestion pipeline over the catalog: fetch each
regulation from Cellar (cached after the first run), parse its articles,
extract defined terms and cross-references, chunk the articles and index
their embeddings.

Documents that fail to fetch or parse are reported and skipped; the rest
of the batch continues.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the run report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if svc == nil || svc.Ingest == nil {
		return errors.New("ingest service not configured")
	}

	report, err := svc.Ingest.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	return outputIngestSummary(cmd, report)
}

func outputIngestSummary(cmd *cobra.Command, report *services.IngestReport) error {
	cmd.Printf("Run %s (%s)\n\n", report.RunID, report.Duration.Round(time.Millisecond))

	for _, doc := range report.Documents {
		if doc.Error != "" {
			cmd.Printf("  FAIL %s: %s\n", doc.DocumentID, doc.Error)
			continue
		}
		origin := "fetched"
		if doc.FromCache {
			origin = "cached"
		}
		cmd.Printf("  OK   %s: %d articles (%s, %s)\n", doc.DocumentID, doc.Articles, doc.Format, origin)
	}

	cmd.Println()
	cmd.Printf("Parsed %d documents (%d failed)\n", report.Parsed, report.Failed)
	cmd.Printf("Extracted %d defined terms, %d cross-references\n", report.DefinedTerms, report.CrossRefs)
	cmd.Printf("Indexed %d chunks\n", report.ChunksIndexed)
	return nil
}
