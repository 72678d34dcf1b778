package reference

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

var (
	bulletRe = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)

	// A code line that looks like a method signature: optional modifier
	// keywords, then name(args).
	signatureLineRe = regexp.MustCompile(
		`^(?:(?:public|private|protected|static|async|abstract|readonly|override|function|new|get|set)\s+)*` +
			`([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`)

	accessorRe  = regexp.MustCompile(`(?:^|\s|\x60)(?:get|set)\s+[A-Za-z_$][A-Za-z0-9_$]*`)
	privateRe   = regexp.MustCompile(`\bprivate\b`)
	protectedRe = regexp.MustCompile(`\bprotected\b`)
	staticRe    = regexp.MustCompile(`\bstatic\b`)
	asyncRe     = regexp.MustCompile(`\basync\b`)
	methodRe    = regexp.MustCompile(`(?i)\bmethod\b`)
	returnsRe   = regexp.MustCompile(`(?i)returns:\s*([^\n]+)`)
	exampleRe   = regexp.MustCompile(`(?im)^(?:#{1,6}\s+)?\**examples?\**:?\s*$`)
)

// reservedNames are identifiers that open code statements, not members.
// The secondary signature scan skips them.
var reservedNames = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"do": true, "else": true, "return": true, "typeof": true, "await": true,
}

// structuralMemberHeadings group member detail under a member heading.
// They never open a member block of their own.
var structuralMemberHeadings = map[string]bool{
	"constructor": true,
	"methods":     true,
	"properties":  true,
	"accessors":   true,
	"parameters":  true,
	"returns":     true,
}

// memberBlock is a candidate member region found by the primary strategy.
type memberBlock struct {
	name string
	body string
}

// extractMembers pulls the members out of one declaration section.
//
// The primary strategy treats every non-structural heading at depth 4-5
// as a member block. The secondary strategy supplements it by scanning
// the whole section for fenced signature-shaped code, catching members
// the generator emitted without their own heading.
func extractMembers(body string) []domain.Member {
	var members []domain.Member
	seen := make(map[string]bool)

	for _, block := range memberBlocks(body) {
		member := parseMember(block.name, block.body)
		if member.Name == "" || seen[member.Name] {
			continue
		}
		seen[member.Name] = true
		members = append(members, member)
	}

	for _, member := range scanSignatures(body) {
		if seen[member.Name] {
			continue
		}
		seen[member.Name] = true
		members = append(members, member)
	}

	return members
}

// memberBlocks finds the primary-strategy member regions. A block opens
// at a non-structural heading of depth 4-5 and runs until the next
// non-structural heading of depth 5 or less; structural sub-headings
// (Parameters, Returns, ...) stay inside the block so their bullet
// lists remain available for enrichment.
func memberBlocks(body string) []memberBlock {
	var blocks []memberBlock
	var current *memberBlock
	var lines []string
	inFence := false

	flush := func() {
		if current != nil {
			current.body = strings.Join(lines, "\n")
			blocks = append(blocks, *current)
		}
		current = nil
		lines = nil
	}

	for _, line := range strings.Split(body, "\n") {
		if fenceRe.MatchString(line) {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				depth := len(m[1])
				title := strings.Trim(stripInline(m[2]), "`:")
				structural := structuralMemberHeadings[strings.ToLower(title)]
				if !structural && depth <= 5 {
					flush()
					if depth >= 4 {
						if name := memberName(title); name != "" {
							current = &memberBlock{name: name}
						}
					}
					continue
				}
			}
		}
		if current != nil {
			lines = append(lines, line)
		}
	}
	flush()

	return blocks
}

// memberName extracts the identifier from a member heading like
// "createToken()" or "static fromSeed(seed)".
func memberName(title string) string {
	title = strings.TrimSpace(title)
	if m := signatureLineRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	last = strings.TrimSuffix(last, "()")
	if regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`).MatchString(last) {
		return last
	}
	return ""
}

// parseMember fills in one member from its block text. Every field has
// a default; a block with nothing recognisable still yields a member
// with just a name.
func parseMember(name, block string) domain.Member {
	signature := firstSignature(block)

	member := domain.Member{
		ID:          uuid.New().String(),
		Name:        name,
		Kind:        detectMemberKind(name, signature, block),
		Signature:   signature,
		Visibility:  detectVisibility(signature, block),
		Static:      staticRe.MatchString(signature) || staticRe.MatchString(block),
		Async:       asyncRe.MatchString(block) || strings.Contains(block, "Promise<"),
		Description: firstParagraph(block),
		Decorators:  extractDecorators(block),
		Returns:     extractReturns(block),
		Example:     extractExample(block),
	}

	member.Params = enrichParams(block, signatureParams(signature))
	return member
}

// firstParagraph gathers the first paragraph of a member block, stopping
// at the first blank line after content, heading or fenced code block.
// Table rows, bullet lines and label lines are excluded; the result is
// reduced to plain text.
func firstParagraph(block string) string {
	var parts []string
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(parts) > 0 {
				break
			}
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

// detectMemberKind applies the kind rules in order: constructors are
// constructors whatever their text, a block mentioning a get/set prefix
// is an accessor, a member with no parenthesised signature and no
// "method" marker is a property, everything else is a method.
func detectMemberKind(name, signature, block string) domain.MemberKind {
	if name == "constructor" || name == "new" {
		return domain.MemberConstructor
	}
	if accessorRe.MatchString(block) {
		return domain.MemberAccessor
	}
	if !strings.Contains(signature, "(") && !methodRe.MatchString(block) {
		return domain.MemberProperty
	}
	return domain.MemberMethod
}

// detectVisibility defaults to public, downgraded on keyword match.
func detectVisibility(signature, block string) domain.Visibility {
	text := signature
	if text == "" {
		text = block
	}
	switch {
	case privateRe.MatchString(text):
		return domain.VisibilityPrivate
	case protectedRe.MatchString(text):
		return domain.VisibilityProtected
	default:
		return domain.VisibilityPublic
	}
}

// firstSignature returns the first line of the first fenced code block,
// or empty when the block has no fenced code.
func firstSignature(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		if !fenceRe.MatchString(line) {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if fenceRe.MatchString(lines[j]) {
				return ""
			}
			if trimmed := strings.TrimSpace(lines[j]); trimmed != "" {
				return trimmed
			}
		}
		return ""
	}
	return ""
}

// extractReturns matches a "Returns:" label line. A "Type - description"
// shape is split; otherwise the whole value is treated as the type.
func extractReturns(block string) *domain.Returns {
	m := returnsRe.FindStringSubmatch(block)
	if m == nil {
		return nil
	}
	value := strings.TrimSpace(m[1])
	if value == "" {
		return nil
	}
	for _, sep := range []string{" - ", " – ", ": "} {
		if idx := strings.Index(value, sep); idx > 0 {
			return &domain.Returns{
				Type:        stripInline(value[:idx]),
				Description: stripInline(value[idx+len(sep):]),
			}
		}
	}
	return &domain.Returns{Type: stripInline(value)}
}

// extractExample returns the first fenced code block following an
// "Example"/"Examples" label.
func extractExample(block string) string {
	loc := exampleRe.FindStringIndex(block)
	if loc == nil {
		return ""
	}
	rest := block[loc[1]:]
	lines := strings.Split(rest, "\n")
	var body []string
	inFence := false
	for _, line := range lines {
		if fenceRe.MatchString(line) {
			if inFence {
				return strings.Join(body, "\n")
			}
			inFence = true
			continue
		}
		if inFence {
			body = append(body, line)
		}
	}
	return strings.Join(body, "\n")
}

// scanSignatures is the secondary member strategy: every fenced code
// block whose first line looks like a method signature yields a member
// with parameters from the signature and no description.
func scanSignatures(body string) []domain.Member {
	var members []domain.Member
	lines := strings.Split(body, "\n")
	inFence := false
	firstLine := false

	for _, line := range lines {
		if fenceRe.MatchString(line) {
			inFence = !inFence
			firstLine = inFence
			continue
		}
		if !inFence || !firstLine {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		firstLine = false

		m := signatureLineRe.FindStringSubmatch(trimmed)
		if m == nil || reservedNames[m[1]] {
			continue
		}
		name := m[1]

		kind := domain.MemberMethod
		if name == "constructor" || name == "new" {
			kind = domain.MemberConstructor
		}

		members = append(members, domain.Member{
			ID:         uuid.New().String(),
			Name:       name,
			Kind:       kind,
			Signature:  trimmed,
			Visibility: detectVisibility(trimmed, trimmed),
			Static:     staticRe.MatchString(trimmed),
			Async:      asyncRe.MatchString(trimmed) || strings.Contains(trimmed, "Promise<"),
			Params:     signatureParams(trimmed),
		})
	}

	return members
}
