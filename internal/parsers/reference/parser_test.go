package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

func TestParse_SingleClass(t *testing.T) {
	markdown := "# TokenClient\n\n" +
		"Creates and sends tokens.\n\n" +
		"Extends: `Base`\n\n" +
		"Implements: `Sender`, `Receiver`\n"

	decls := Parse(markdown, "api/token-client/TokenClient.md", "https://example.com/TokenClient.md")

	require.Len(t, decls, 1)
	decl := decls[0]
	assert.Equal(t, "TokenClient", decl.Name)
	assert.Equal(t, "token-client", decl.Package)
	assert.Equal(t, domain.KindClass, decl.Kind)
	assert.Equal(t, "Creates and sends tokens.", decl.Description)
	assert.Equal(t, "Base", decl.Extends)
	assert.Equal(t, []string{"Sender", "Receiver"}, decl.Implements)
	assert.Equal(t, "https://example.com/TokenClient.md", decl.SourceURL)
}

func TestParse_GroupedUnderStructuralHeading(t *testing.T) {
	// Symbols one level below a "Classes" grouping heading are found by
	// the second pass; the grouping heading itself never becomes a
	// declaration.
	markdown := "# token-client\n\n" +
		"## Classes\n\n" +
		"## TokenClient\n\nThe client.\n\n" +
		"## IStorage\n\nStorage contract.\n"

	decls := Parse(markdown, "api/token-client/index.md", "")

	require.Len(t, decls, 2)
	assert.Equal(t, "TokenClient", decls[0].Name)
	assert.Equal(t, "IStorage", decls[1].Name)
	assert.Equal(t, domain.KindInterface, decls[1].Kind)
}

func TestParse_GroupedBelowDocumentTitle(t *testing.T) {
	// A package title over grouping headings pushes the symbols two
	// levels down; the pass pair anchored at the grouping level finds
	// them.
	markdown := "# token-client\n\n" +
		"Client package for token transfer.\n\n" +
		"## Classes\n\n" +
		"### TokenClient\n\nThe client.\n\n" +
		"## Interfaces\n\n" +
		"### IStorage\n\nStorage contract.\n"

	decls := Parse(markdown, "api/token-client/index.md", "")

	require.Len(t, decls, 2)
	assert.Equal(t, "TokenClient", decls[0].Name)
	assert.Equal(t, domain.KindClass, decls[0].Kind)
	assert.Equal(t, "IStorage", decls[1].Name)
	assert.Equal(t, domain.KindInterface, decls[1].Kind)
}

func TestParse_MultiParagraphDescription(t *testing.T) {
	// Blank lines separate paragraphs; only a heading or fence ends the
	// description.
	markdown := "# Wallet\n\n" +
		"Holds tokens.\n\n" +
		"Supports multiple currencies.\n\n" +
		"## Methods\n\nNot part of the description.\n"

	decls := Parse(markdown, "api/pkg/wallet.md", "")

	require.Len(t, decls, 1)
	assert.Equal(t, "Holds tokens. Supports multiple currencies.", decls[0].Description)
}

func TestParse_DescriptionStopsAtFence(t *testing.T) {
	markdown := "# Wallet\n\nHolds tokens.\n\n```ts\nnew Wallet()\n```\n\nTrailing prose.\n"

	decls := Parse(markdown, "api/pkg/wallet.md", "")

	require.Len(t, decls, 1)
	assert.Equal(t, "Holds tokens.", decls[0].Description)
}

func TestParse_KindDetection(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.DeclarationKind
	}{
		{"Widget", "An interface for rendering.", domain.KindInterface},
		{"TokenID", "Type alias for token identifiers.", domain.KindTypeAlias},
		{"Currency", "Enumeration of supported currencies.", domain.KindEnum},
		{"createClient", "A factory function.", domain.KindFunction},
		{"Wallet", "Holds tokens.", domain.KindClass},
		// The IThing name shape is an interface cue on its own.
		{"IWallet", "Holds tokens.", domain.KindInterface},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markdown := "# " + tt.name + "\n\n" + tt.body + "\n"
			decls := Parse(markdown, "api/pkg/file.md", "")
			require.Len(t, decls, 1)
			assert.Equal(t, tt.want, decls[0].Kind)
		})
	}
}

func TestParse_LinkedHeadingName(t *testing.T) {
	markdown := "# [TokenClient](TokenClient.md)\n\nThe client.\n"

	decls := Parse(markdown, "api/pkg/index.md", "")

	require.Len(t, decls, 1)
	assert.Equal(t, "TokenClient", decls[0].Name)
}

func TestParse_NonSymbolHeadingsSkipped(t *testing.T) {
	markdown := "# Getting started guide\n\nProse only.\n\n" +
		"## What you will learn\n\nMore prose.\n"

	decls := Parse(markdown, "api/pkg/intro.md", "")

	assert.Empty(t, decls)
}

func TestParse_DuplicateNameFirstWins(t *testing.T) {
	markdown := "# Wallet\n\nTop level description.\n\n" +
		"## Wallet\n\nNested duplicate.\n"

	decls := Parse(markdown, "api/pkg/wallet.md", "")

	require.Len(t, decls, 1)
	assert.Equal(t, "Top level description.", decls[0].Description)
}

func TestParse_NoHeadings(t *testing.T) {
	assert.Empty(t, Parse("No structure at all.\n", "api/pkg/x.md", ""))
	assert.Empty(t, Parse("", "api/pkg/x.md", ""))
}

func TestParse_ExtendsAbsent(t *testing.T) {
	markdown := "# Wallet\n\nHolds tokens.\n"

	decls := Parse(markdown, "api/pkg/wallet.md", "")

	require.Len(t, decls, 1)
	assert.Empty(t, decls[0].Extends)
	assert.Empty(t, decls[0].Implements)
}

func TestParse_Decorators(t *testing.T) {
	markdown := "# Wallet\n\nHolds tokens.\n\nDecorated with @Injectable and @Deprecated, @Injectable again.\n"

	decls := Parse(markdown, "api/pkg/wallet.md", "")

	require.Len(t, decls, 1)
	assert.Equal(t, []string{"Injectable", "Deprecated"}, decls[0].Decorators)
}

func TestParse_HeadingInsideFenceIgnored(t *testing.T) {
	markdown := "# Wallet\n\nHolds tokens.\n\n```\n# NotADeclaration\n```\n"

	decls := Parse(markdown, "api/pkg/wallet.md", "")

	require.Len(t, decls, 1)
	assert.Equal(t, "Wallet", decls[0].Name)
}

func TestParse_MembersLinkedToDeclaration(t *testing.T) {
	markdown := "# Wallet\n\nHolds tokens.\n\n" +
		"#### balance\n\nThe current balance.\n"

	decls := Parse(markdown, "api/pkg/wallet.md", "")

	require.Len(t, decls, 1)
	require.Len(t, decls[0].Members, 1)
	assert.Equal(t, decls[0].ID, decls[0].Members[0].DeclarationID)
}
