package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// SearchInput is the input schema for the search_docs tool.
type SearchInput struct {
	Query   string `json:"query" jsonschema:"the search query, whitespace-separated terms"`
	Package string `json:"package,omitempty" jsonschema:"restrict results to one package (default all)"`
	Type    string `json:"type,omitempty" jsonschema:"result type filter: all, guide, class, interface or method"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results, 1-20 (default 10)"`
}

// SearchOutput is the output schema for the search_docs tool.
type SearchOutput struct {
	Status  string               `json:"status,omitempty"`
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Package   string `json:"package"`
	Category  string `json:"category"`
	Type      string `json:"type"`
	SourceURL string `json:"source_url,omitempty"`
	Rank      int    `json:"rank"`
}

// GetClassInput is the input schema for the get_class tool.
type GetClassInput struct {
	Name    string `json:"name" jsonschema:"the exact declaration name, e.g. TokenClient"`
	Package string `json:"package,omitempty" jsonschema:"restrict the lookup to one package"`
}

// GetClassOutput is the output schema for the get_class tool.
type GetClassOutput struct {
	Status string       `json:"status,omitempty"`
	Found  bool         `json:"found"`
	Class  *ClassOutput `json:"class,omitempty"`
}

// ClassOutput represents a declaration with its members.
type ClassOutput struct {
	Name        string         `json:"name"`
	Package     string         `json:"package"`
	Kind        string         `json:"kind"`
	Description string         `json:"description,omitempty"`
	Extends     string         `json:"extends,omitempty"`
	Implements  []string       `json:"implements,omitempty"`
	Decorators  []string       `json:"decorators,omitempty"`
	SourceURL   string         `json:"source_url,omitempty"`
	Members     []MemberOutput `json:"members"`
}

// MemberOutput represents one member of a declaration.
type MemberOutput struct {
	Name        string          `json:"name"`
	Kind        string          `json:"kind"`
	Signature   string          `json:"signature,omitempty"`
	Visibility  string          `json:"visibility"`
	Static      bool            `json:"static,omitempty"`
	Async       bool            `json:"async,omitempty"`
	Description string          `json:"description,omitempty"`
	Params      []domain.Param  `json:"params"`
	Returns     *domain.Returns `json:"returns,omitempty"`
	Decorators  []string        `json:"decorators,omitempty"`
	Example     string          `json:"example,omitempty"`
}

// GetMethodInput is the input schema for the get_method tool.
type GetMethodInput struct {
	Name    string `json:"name" jsonschema:"a member name, bare (send) or qualified (TokenClient.send)"`
	Package string `json:"package,omitempty" jsonschema:"restrict the lookup to one package"`
}

// GetMethodOutput is the output schema for the get_method tool.
type GetMethodOutput struct {
	Status  string              `json:"status,omitempty"`
	Matches []MethodMatchOutput `json:"matches"`
	Count   int                 `json:"count"`
}

// MethodMatchOutput pairs a member with its owning declaration.
type MethodMatchOutput struct {
	Class     string       `json:"class"`
	Package   string       `json:"package"`
	SourceURL string       `json:"source_url,omitempty"`
	Member    MemberOutput `json:"member"`
}

// ListModulesInput is the input schema for the list_modules tool.
type ListModulesInput struct {
	Package string `json:"package,omitempty" jsonschema:"restrict the listing to one package (default all)"`
	Kind    string `json:"kind,omitempty" jsonschema:"restrict to one declaration kind: interface, type, enum, function or class"`
}

// ListModulesOutput is the output schema for the list_modules tool.
type ListModulesOutput struct {
	Status       string               `json:"status,omitempty"`
	Declarations []DeclarationSummary `json:"declarations"`
	Count        int                  `json:"count"`
}

// DeclarationSummary is one listing entry, without members.
type DeclarationSummary struct {
	Name        string `json:"name"`
	Package     string `json:"package"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_docs",
		Description: "Search the indexed documentation for guides, classes and methods",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_class",
		Description: "Look up one class, interface or type by exact name, with all its members",
	}, s.handleGetClass)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_method",
		Description: "Look up methods by bare or Class.method qualified name",
	}, s.handleGetMethod)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_modules",
		Description: "List all indexed declarations, optionally filtered by package and kind",
	}, s.handleListModules)
}

// indexStatus reports a human-readable message while the index cannot
// serve queries. ok is true when the index is ready.
func (s *Server) indexStatus() (string, bool) {
	state := s.ports.Indexer.State()
	switch state.Status {
	case domain.StatusReady:
		return "", true
	case domain.StatusError:
		return "Index build failed: " + state.Err, false
	default:
		return "Index is still building, please retry shortly.", false
	}
}

// handleSearch handles the search_docs tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if msg, ok := s.indexStatus(); !ok {
		return nil, SearchOutput{Status: msg, Results: []SearchResultOutput{}}, nil
	}

	opts := domain.SearchOptions{
		Package: input.Package,
		Type:    input.Type,
		Limit:   domain.ClampLimit(input.Limit),
	}
	results, err := s.ports.Query.Search(ctx, input.Query, opts)
	if err != nil {
		if msg, handled := statusMessage(err); handled {
			return nil, SearchOutput{Status: msg, Results: []SearchResultOutput{}}, nil
		}
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			ID:        results[i].ID,
			Title:     results[i].Title,
			Snippet:   results[i].Snippet,
			Package:   results[i].Package,
			Category:  results[i].Category,
			Type:      results[i].Type,
			SourceURL: results[i].SourceURL,
			Rank:      results[i].Rank,
		}
	}

	return nil, output, nil
}

// handleGetClass handles the get_class tool invocation.
func (s *Server) handleGetClass(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetClassInput,
) (*mcp.CallToolResult, GetClassOutput, error) {
	if msg, ok := s.indexStatus(); !ok {
		return nil, GetClassOutput{Status: msg}, nil
	}

	decl, err := s.ports.Query.GetDeclaration(ctx, input.Name, input.Package)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, GetClassOutput{Found: false}, nil
		}
		if msg, handled := statusMessage(err); handled {
			return nil, GetClassOutput{Status: msg}, nil
		}
		return nil, GetClassOutput{}, err
	}

	return nil, GetClassOutput{Found: true, Class: classOutput(decl)}, nil
}

// handleGetMethod handles the get_method tool invocation.
func (s *Server) handleGetMethod(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetMethodInput,
) (*mcp.CallToolResult, GetMethodOutput, error) {
	if msg, ok := s.indexStatus(); !ok {
		return nil, GetMethodOutput{Status: msg, Matches: []MethodMatchOutput{}}, nil
	}

	matches, err := s.ports.Query.GetMember(ctx, input.Name, input.Package)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, GetMethodOutput{Matches: []MethodMatchOutput{}}, nil
		}
		if msg, handled := statusMessage(err); handled {
			return nil, GetMethodOutput{Status: msg, Matches: []MethodMatchOutput{}}, nil
		}
		return nil, GetMethodOutput{}, err
	}

	output := GetMethodOutput{
		Matches: make([]MethodMatchOutput, len(matches)),
		Count:   len(matches),
	}
	for i := range matches {
		output.Matches[i] = MethodMatchOutput{
			Class:     matches[i].DeclarationName,
			Package:   matches[i].Package,
			SourceURL: matches[i].SourceURL,
			Member:    memberOutput(&matches[i].Member),
		}
	}

	return nil, output, nil
}

// handleListModules handles the list_modules tool invocation.
func (s *Server) handleListModules(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListModulesInput,
) (*mcp.CallToolResult, ListModulesOutput, error) {
	if msg, ok := s.indexStatus(); !ok {
		return nil, ListModulesOutput{Status: msg, Declarations: []DeclarationSummary{}}, nil
	}

	decls, err := s.ports.Query.ListDeclarations(ctx, input.Package, input.Kind)
	if err != nil {
		if msg, handled := statusMessage(err); handled {
			return nil, ListModulesOutput{Status: msg, Declarations: []DeclarationSummary{}}, nil
		}
		return nil, ListModulesOutput{}, err
	}

	output := ListModulesOutput{
		Declarations: make([]DeclarationSummary, len(decls)),
		Count:        len(decls),
	}
	for i := range decls {
		output.Declarations[i] = DeclarationSummary{
			Name:        decls[i].Name,
			Package:     decls[i].Package,
			Kind:        string(decls[i].Kind),
			Description: decls[i].Description,
			SourceURL:   decls[i].SourceURL,
		}
	}

	return nil, output, nil
}

// statusMessage maps index availability errors to a human-readable
// status instead of a protocol error.
func statusMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrIndexBuilding):
		return "Index is still building, please retry shortly.", true
	case errors.Is(err, domain.ErrIndexFailed):
		return "Index build failed: " + err.Error(), true
	default:
		return "", false
	}
}

func classOutput(decl *domain.Declaration) *ClassOutput {
	out := &ClassOutput{
		Name:        decl.Name,
		Package:     decl.Package,
		Kind:        string(decl.Kind),
		Description: decl.Description,
		Extends:     decl.Extends,
		Implements:  decl.Implements,
		Decorators:  decl.Decorators,
		SourceURL:   decl.SourceURL,
		Members:     make([]MemberOutput, len(decl.Members)),
	}
	for i := range decl.Members {
		out.Members[i] = memberOutput(&decl.Members[i])
	}
	return out
}

func memberOutput(m *domain.Member) MemberOutput {
	params := m.Params
	if params == nil {
		params = []domain.Param{}
	}
	return MemberOutput{
		Name:        m.Name,
		Kind:        string(m.Kind),
		Signature:   m.Signature,
		Visibility:  string(m.Visibility),
		Static:      m.Static,
		Async:       m.Async,
		Description: m.Description,
		Params:      params,
		Returns:     m.Returns,
		Decorators:  m.Decorators,
		Example:     m.Example,
	}
}
