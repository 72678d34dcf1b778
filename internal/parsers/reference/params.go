package reference

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

var (
	// name?: Type, with an optional rest marker and default value.
	paramShapeRe = regexp.MustCompile(`^(?:\.\.\.)?([A-Za-z_$][A-Za-z0-9_$]*)(\?)?\s*(?::\s*(.+))?$`)

	// Bullet lines of the form `name (type) - description`.
	bulletParamRe = regexp.MustCompile("(?m)^\\s*[-*+]\\s+`?([A-Za-z_$][A-Za-z0-9_$]*)`?\\s*\\(([^)]*)\\)\\s*[-–—:]?\\s*(.*)$")
)

// signatureParams extracts parameters from a signature's parenthesised
// argument list. An empty or parenthesis-free signature yields nil.
func signatureParams(signature string) []domain.Param {
	args, ok := argumentList(signature)
	if !ok || strings.TrimSpace(args) == "" {
		return nil
	}

	groups := splitTopLevel(args)
	params := make([]domain.Param, 0, len(groups))
	for _, group := range groups {
		params = append(params, parseParam(group))
	}
	return params
}

// argumentList returns the text inside the signature's first balanced
// parenthesis pair.
func argumentList(signature string) (string, bool) {
	open := strings.Index(signature, "(")
	if open < 0 {
		return "", false
	}
	depth := 0
	for i := open; i < len(signature); i++ {
		switch signature[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return signature[open+1 : i], true
			}
		}
	}
	// Unbalanced: take everything after the opening parenthesis.
	return signature[open+1:], true
}

// splitTopLevel splits an argument list on commas, ignoring commas
// nested inside <>, (), {} or [].
func splitTopLevel(args string) []string {
	var (
		groups []string
		start  int
		depth  int
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case '<', '(', '{', '[':
			depth++
		case '>', ')', '}', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				groups = append(groups, args[start:i])
				start = i + 1
			}
		}
	}
	groups = append(groups, args[start:])

	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if strings.TrimSpace(g) != "" {
			out = append(out, strings.TrimSpace(g))
		}
	}
	return out
}

// parseParam recognises the `name?: Type` shape. Anything else is kept
// verbatim as the parameter name; extraction never fails outright.
func parseParam(group string) domain.Param {
	// Drop a default value before matching.
	if idx := strings.Index(group, "="); idx >= 0 {
		group = strings.TrimSpace(group[:idx])
	}

	m := paramShapeRe.FindStringSubmatch(group)
	if m == nil {
		return domain.Param{Name: group}
	}
	return domain.Param{
		Name:     m[1],
		Type:     strings.TrimSpace(m[3]),
		Optional: m[2] == "?",
	}
}

// enrichParams backfills parameter types and descriptions from bullet
// lines of the form `name (type) - description`. Values already present
// from the signature are never overwritten.
func enrichParams(block string, params []domain.Param) []domain.Param {
	matches := bulletParamRe.FindAllStringSubmatch(block, -1)
	if len(matches) == 0 {
		return params
	}

	byName := make(map[string]*domain.Param, len(params))
	for i := range params {
		byName[params[i].Name] = &params[i]
	}

	for _, m := range matches {
		param, ok := byName[m[1]]
		if !ok {
			continue
		}
		if param.Type == "" {
			param.Type = stripInline(m[2])
		}
		if param.Description == "" {
			param.Description = stripInline(m[3])
		}
	}

	return params
}
