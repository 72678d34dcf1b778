package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

var lookupPackage string

var lookupCmd = &cobra.Command{
	Use:   "lookup [name]",
	Short: "Look up a class or method by name",
	Long: `Looks up a declaration by exact name, or a method when the name is
qualified with a dot.

Examples:
  docdex lookup TokenClient
  docdex lookup TokenClient.send
  docdex lookup send`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupPackage, "package", domain.FilterAll, "restrict the lookup to one package")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := setupServices(ctx); err != nil {
		return err
	}
	if err := ensureIndex(ctx); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	name := args[0]
	if strings.Contains(name, ".") {
		return lookupMember(cmd, name)
	}

	decl, err := queryService.GetDeclaration(ctx, name, lookupPackage)
	if err == nil {
		printDeclaration(cmd, decl)
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("lookup failed: %w", err)
	}

	// No declaration by that name; fall back to a bare member lookup.
	return lookupMember(cmd, name)
}

func lookupMember(cmd *cobra.Command, name string) error {
	matches, err := queryService.GetMember(cmd.Context(), name, lookupPackage)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if len(matches) == 0 {
		cmd.Println(errorStyle.Render(fmt.Sprintf("No match for %q.", name)))
		return nil
	}

	for i := range matches {
		m := &matches[i]
		cmd.Printf("%s %s\n",
			titleStyle.Render(m.DeclarationName+"."+m.Member.Name),
			metaStyle.Render(fmt.Sprintf("(%s, %s)", m.Member.Kind, m.Package)))
		printMember(cmd, &m.Member)
		cmd.Println()
	}
	return nil
}

func printDeclaration(cmd *cobra.Command, decl *domain.Declaration) {
	cmd.Printf("%s %s\n",
		titleStyle.Render(decl.Name),
		metaStyle.Render(fmt.Sprintf("(%s, %s)", decl.Kind, decl.Package)))
	if decl.Extends != "" {
		cmd.Printf("  extends %s\n", kindStyle.Render(decl.Extends))
	}
	if len(decl.Implements) > 0 {
		cmd.Printf("  implements %s\n", kindStyle.Render(strings.Join(decl.Implements, ", ")))
	}
	if decl.Description != "" {
		cmd.Printf("\n  %s\n", decl.Description)
	}
	if len(decl.Members) > 0 {
		cmd.Printf("\nMembers (%d):\n", len(decl.Members))
		for i := range decl.Members {
			m := &decl.Members[i]
			cmd.Printf("  %s %s\n", kindStyle.Render(string(m.Kind)), m.Name)
			if m.Signature != "" {
				cmd.Printf("    %s\n", metaStyle.Render(m.Signature))
			}
		}
	}
	if decl.SourceURL != "" {
		cmd.Printf("\n%s\n", metaStyle.Render(decl.SourceURL))
	}
}

func printMember(cmd *cobra.Command, m *domain.Member) {
	if m.Signature != "" {
		cmd.Printf("  %s\n", metaStyle.Render(m.Signature))
	}
	if m.Description != "" {
		cmd.Printf("  %s\n", m.Description)
	}
	for i := range m.Params {
		p := &m.Params[i]
		optional := ""
		if p.Optional {
			optional = " (optional)"
		}
		cmd.Printf("    %s: %s%s", p.Name, kindStyle.Render(p.Type), optional)
		if p.Description != "" {
			cmd.Printf(" - %s", p.Description)
		}
		cmd.Println()
	}
	if m.Returns != nil {
		cmd.Printf("    returns %s", kindStyle.Render(m.Returns.Type))
		if m.Returns.Description != "" {
			cmd.Printf(" - %s", m.Returns.Description)
		}
		cmd.Println()
	}
}
