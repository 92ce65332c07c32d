// Command lexroute is the CLI entry point. It loads settings, wires the
// adapters to the core services, and dispatches to the cobra commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	configfile "github.com/custodia-labs/lexroute/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexroute/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/lexroute/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexroute/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/lexroute/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexroute/internal/catalog"
	"github.com/custodia-labs/lexroute/internal/connectors/cellar"
	"github.com/custodia-labs/lexroute/internal/core/services"
	"github.com/custodia-labs/lexroute/internal/postprocessors/chunker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	store, err := configfile.NewStore(os.Getenv("LEXROUTE_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("locating config: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	rawStore, err := sqlite.NewRawStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("opening raw cache: %w", err)
	}
	defer rawStore.Close()

	fetcher := cellar.New(cellar.Config{
		RequestsPerSecond: settings.Fetch.RequestsPerSecond,
	}, rawStore)

	encoder := openai.New(openai.Config{
		APIKey:     settings.Encoder.APIKey,
		BaseURL:    settings.Encoder.BaseURL,
		Model:      settings.Encoder.Model,
		Dimensions: settings.Encoder.Dimensions,
	})

	index, err := memory.New(encoder, filepath.Join(settings.DataDir, "index"))
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	defer index.Close()

	chk := chunker.New(
		chunker.WithMaxChars(settings.Chunking.MaxChars),
		chunker.WithMinChars(settings.Chunking.MinChars),
	)

	entityIndex, err := services.LoadEntityIndex(settings.DataDir)
	if err != nil {
		return fmt.Errorf("loading entity index: %w", err)
	}

	cli.SetServices(&cli.Services{
		Catalog:  cat,
		Entities: entityIndex,
		Ingest:   services.NewIngestService(cat, fetcher, index, chk, settings.DataDir),
		Routing:  services.NewRoutingTable(cat, entityIndex),
		Query:    services.NewQueryService(encoder, index),
	})

	return cli.Execute()
}
