package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

var (
	modulesPackage string
	modulesKind    string
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List indexed declarations",
	Long: `Lists every indexed declaration, grouped by package and ordered by
kind and name.`,
	RunE: runModules,
}

func init() {
	modulesCmd.Flags().StringVar(&modulesPackage, "package", domain.FilterAll, "restrict the listing to one package")
	modulesCmd.Flags().StringVarP(&modulesKind, "kind", "k", domain.FilterAll, "restrict to one kind: interface, type, enum, function or class")
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := setupServices(ctx); err != nil {
		return err
	}
	if err := ensureIndex(ctx); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	decls, err := queryService.ListDeclarations(ctx, modulesPackage, modulesKind)
	if err != nil {
		return fmt.Errorf("listing declarations: %w", err)
	}
	if len(decls) == 0 {
		cmd.Println("No declarations indexed.")
		return nil
	}

	currentPkg := ""
	for i := range decls {
		d := &decls[i]
		if d.Package != currentPkg {
			currentPkg = d.Package
			cmd.Printf("\n%s\n", titleStyle.Render(currentPkg))
		}
		cmd.Printf("  %-10s %s\n", kindStyle.Render(string(d.Kind)), d.Name)
	}
	cmd.Printf("\n%d declarations.\n", len(decls))
	return nil
}
