// Package reference extracts declaration records from generated
// API-reference markdown.
//
// The input is not a formal grammar: it is prose-like documentation
// generator output whose heading nesting and phrasing vary between
// symbol kinds and generator versions. Every extraction step therefore
// tries a pattern and falls back to a default on no match; nothing in
// this package returns an error, and one malformed section never aborts
// extraction of the rest of the file.
package reference

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	fenceRe   = regexp.MustCompile("^(```|~~~)")

	// A symbol name is a bare identifier, optionally wrapped in a
	// markdown link.
	symbolNameRe = regexp.MustCompile(`^\[?([A-Za-z_$][A-Za-z0-9_$]*)\]?(?:\([^)]*\))?$`)

	interfaceNameRe = regexp.MustCompile(`^I[A-Z]`)
	decoratorRe     = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)`)
	extendsRe       = regexp.MustCompile(`(?i)extends:\s*([^\n]+)`)
	implementsRe    = regexp.MustCompile(`(?i)implements:\s*([^\n]+)`)
	labelLineRe     = regexp.MustCompile(`(?i)^(extends|implements|decorators?):`)

	typeAliasRe = regexp.MustCompile(`(?i)\btype alias\b`)
	enumRe      = regexp.MustCompile(`(?i)\benum(?:eration)?\b`)
	functionRe  = regexp.MustCompile(`(?i)\bfunction\b`)
	interfaceRe = regexp.MustCompile(`(?i)\binterface\b`)
)

// structuralHeaders are grouping headings emitted by the documentation
// generator. They never name a symbol themselves.
var structuralHeaders = map[string]bool{
	"classes":      true,
	"interfaces":   true,
	"type aliases": true,
	"enumerations": true,
	"functions":    true,
}

// section is one heading-delimited region of the document.
type section struct {
	title string
	level int
	body  string
}

// Parse extracts declarations from one reference-doc file.
//
// Paired passes run over the document: one at the shallowest heading
// level present and one a level deeper, to catch symbols grouped under
// an explicit "Classes"/"Interfaces" parent heading. When the grouping
// headings sit below a document title (an H1 package name over "##
// Classes" over "### TokenClient"), a second pass pair anchors at the
// grouping level so the symbols underneath are still scanned.
// Candidates are de-duplicated by name across passes, first pass wins.
func Parse(markdown, filePath, sourceURL string) []domain.Declaration {
	base := minHeadingLevel(markdown)
	if base == 0 {
		return nil
	}

	levels := []int{base, base + 1}
	if sl := structuralLevel(markdown); sl > 0 {
		for _, l := range []int{sl, sl + 1} {
			if l != base && l != base+1 {
				levels = append(levels, l)
			}
		}
	}

	meta := domain.ClassifySource(filePath)
	seen := make(map[string]bool)
	var decls []domain.Declaration

	for _, level := range levels {
		for _, sec := range splitSections(markdown, level) {
			decl, ok := extractDeclaration(sec, meta, filePath, sourceURL)
			if !ok || seen[decl.Name] {
				continue
			}
			seen[decl.Name] = true
			decls = append(decls, decl)
		}
	}

	return decls
}

// minHeadingLevel returns the shallowest heading depth in the document,
// ignoring anything inside fenced code. Zero means no headings at all.
func minHeadingLevel(markdown string) int {
	min := 0
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		if fenceRe.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := headingRe.FindStringSubmatch(line); m != nil {
			if min == 0 || len(m[1]) < min {
				min = len(m[1])
			}
		}
	}
	return min
}

// structuralLevel returns the shallowest heading depth at which one of
// the generator's grouping headings ("Classes", "Interfaces", ...)
// appears, ignoring fenced code. Zero means no grouping headings.
func structuralLevel(markdown string) int {
	level := 0
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		if fenceRe.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.Trim(stripInline(strings.TrimSpace(m[2])), "`")
		if !structuralHeaders[strings.ToLower(title)] {
			continue
		}
		if level == 0 || len(m[1]) < level {
			level = len(m[1])
		}
	}
	return level
}

// splitSections cuts the document at headings of exactly the given
// level. Each section runs until the next heading of that level or
// shallower, so deeper headings stay inside the section body.
func splitSections(markdown string, level int) []section {
	var sections []section
	var current *section
	var body []string
	inFence := false

	flush := func() {
		if current != nil {
			current.body = strings.Join(body, "\n")
			sections = append(sections, *current)
		}
		current = nil
		body = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		if fenceRe.MatchString(line) {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				depth := len(m[1])
				if depth == level {
					flush()
					current = &section{title: strings.TrimSpace(m[2]), level: depth}
					continue
				}
				if depth < level {
					flush()
					continue
				}
			}
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// extractDeclaration turns one section into a Declaration candidate.
// Returns false when the section heading is a structural header or does
// not look like a symbol name. Every field extraction has a default;
// sparse sections yield sparse declarations, never failures.
func extractDeclaration(sec section, meta domain.SourceMeta, filePath, sourceURL string) (domain.Declaration, bool) {
	title := strings.Trim(stripInline(sec.title), "`")
	if structuralHeaders[strings.ToLower(title)] {
		return domain.Declaration{}, false
	}

	m := symbolNameRe.FindStringSubmatch(title)
	if m == nil {
		return domain.Declaration{}, false
	}
	name := m[1]

	decl := domain.Declaration{
		ID:          uuid.New().String(),
		Name:        name,
		Package:     meta.Package,
		Kind:        detectKind(name, sec.body),
		Description: extractDescription(sec.body),
		Extends:     extractExtends(sec.body),
		Implements:  extractImplements(sec.body),
		Decorators:  extractDecorators(sec.body),
		FilePath:    filePath,
		SourceURL:   sourceURL,
	}

	decl.Members = extractMembers(sec.body)
	for i := range decl.Members {
		decl.Members[i].DeclarationID = decl.ID
	}

	return decl, true
}

// detectKind inspects the section text for keyword cues, in priority
// order interface > type alias > enumeration > function, defaulting to
// class. A name shaped like IThing is an additional interface cue; the
// heuristic is intentionally permissive.
func detectKind(name, body string) domain.DeclarationKind {
	switch {
	case interfaceRe.MatchString(body) || interfaceNameRe.MatchString(name):
		return domain.KindInterface
	case typeAliasRe.MatchString(body):
		return domain.KindTypeAlias
	case enumRe.MatchString(body):
		return domain.KindEnum
	case functionRe.MatchString(body):
		return domain.KindFunction
	default:
		return domain.KindClass
	}
}

// extractDescription gathers every non-empty line of the section body
// up to the first heading or fenced code block, joined with spaces and
// reduced to plain text. Blank lines separate paragraphs but do not
// terminate the description. Table rows, bullet lines and the
// Extends/Implements label lines are excluded.
func extractDescription(body string) string {
	var parts []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if headingRe.MatchString(trimmed) || fenceRe.MatchString(trimmed) {
			break
		}
		if strings.HasPrefix(trimmed, "|") || bulletRe.MatchString(trimmed) || labelLineRe.MatchString(trimmed) {
			continue
		}
		parts = append(parts, stripInline(trimmed))
	}
	return strings.Join(parts, " ")
}

// extractExtends matches an "Extends:" label and returns the single
// parent name, or empty when the label is absent.
func extractExtends(body string) string {
	m := extendsRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	value := stripInline(m[1])
	if fields := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' }); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// extractImplements matches an "Implements:" label and comma-splits the
// value into a trimmed name list.
func extractImplements(body string) []string {
	m := implementsRe.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	var names []string
	for _, part := range strings.Split(m[1], ",") {
		if name := stripInline(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// extractDecorators collects every @word token in first-seen order.
func extractDecorators(text string) []string {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	for _, m := range decoratorRe.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}
