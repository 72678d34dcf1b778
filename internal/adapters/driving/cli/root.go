// Package cli implements the docdex command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/docdex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docdex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docdex/internal/connectors/github"
	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driving"
	"github.com/custodia-labs/docdex/internal/core/services"
	"github.com/custodia-labs/docdex/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired by setupServices and shared by the commands.
var (
	appConfig    *configfile.Config
	indexService driving.IndexService
	queryService driving.QueryService
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "docdex",
	Short: "Index and query documentation from a GitHub repository",
	Long: `docdex indexes the markdown documentation of one GitHub repository
into a local search index and answers queries over it, either directly
from the command line or as an MCP server for AI assistants.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.docdex/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setupServices loads the configuration and wires the index and query
// services. Idempotent; commands call it from their RunE.
func setupServices(ctx context.Context) error {
	if indexService != nil {
		return nil
	}

	path := configPath
	if path == "" {
		var err error
		path, err = configfile.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := configfile.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	appConfig = cfg

	factory, err := sqlite.NewFactory(cfg.Index.DataDir)
	if err != nil {
		return fmt.Errorf("creating store factory: %w", err)
	}

	client := github.NewClient(ctx, cfg.GitHub.Token())
	fetcher, err := github.NewFetcher(client, github.Config{
		Owner:    cfg.Repository.Owner,
		Repo:     cfg.Repository.Name,
		Branch:   cfg.Repository.Branch,
		DocsPath: cfg.Repository.DocsPath,
	})
	if err != nil {
		return fmt.Errorf("creating fetcher: %w", err)
	}

	indexer := services.NewIndexer(fetcher, factory)
	indexService = indexer
	queryService = services.NewQuery(indexer)
	return nil
}

// ensureIndex builds the index synchronously when no store is serving
// yet. Query commands call it before reading.
func ensureIndex(ctx context.Context) error {
	state := indexService.State()
	if state.Status == domain.StatusReady {
		return nil
	}
	_, err := indexService.Build(ctx)
	return err
}
