package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

var (
	searchPackage string
	searchType    string
	searchLimit   int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the documentation index",
	Long: `Searches doc chunks, declarations and members for every term in the
query. Results are ranked by lexical relevance, best first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchPackage, "package", domain.FilterAll, "restrict results to one package")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", domain.FilterAll, "result type: all, guide, class, interface or method")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results (1-20)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := setupServices(ctx); err != nil {
		return err
	}
	if err := ensureIndex(ctx); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	opts := domain.SearchOptions{
		Package: searchPackage,
		Type:    searchType,
		Limit:   searchLimit,
	}
	results, err := queryService.Search(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s %s\n", i+1,
			titleStyle.Render(r.Title),
			metaStyle.Render(fmt.Sprintf("(%s, %s, rank %d)", r.Type, r.Package, r.Rank)))
		if r.Snippet != "" {
			cmd.Println(snippetStyle.Render(r.Snippet))
		}
		if r.SourceURL != "" {
			cmd.Printf("      %s\n", metaStyle.Render(r.SourceURL))
		}
		cmd.Println()
	}
	return nil
}
