package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the documentation index",
	Long: `Fetches the configured repository's documentation and rebuilds the
local index from scratch. Every run is a full rebuild; there is no
incremental update.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := setupServices(ctx); err != nil {
		return err
	}

	cmd.Printf("Indexing %s/%s (%s)...\n",
		appConfig.Repository.Owner, appConfig.Repository.Name, appConfig.Repository.Branch)

	stats, err := indexService.Build(ctx)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	cmd.Printf("Indexed %d doc chunks, %d declarations, %d members.\n",
		stats.DocCount, stats.ClassCount, stats.MemberCount)
	return nil
}
