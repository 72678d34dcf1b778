// Package guide splits hand-written markdown documentation into
// heading-scoped chunks for full-text indexing.
//
// The parser is line-oriented and best-effort: it never fails on
// irregular input, it just produces fewer or emptier chunks.
package guide

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

var (
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	fenceRe     = regexp.MustCompile("^(```|~~~)\\s*(\\S*)\\s*$")
	listItemRe  = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+(.*)$`)
	quoteLineRe = regexp.MustCompile(`^>\s?(.*)$`)
)

// Parse splits a markdown document into heading-scoped chunks.
//
// Every heading closes the previous chunk regardless of level; chunks do
// not nest. A chunk is emitted only when it has both a heading and at
// least one content block. Content before the first heading is dropped.
func Parse(markdown, filePath, sourceURL string) []domain.DocChunk {
	meta := domain.ClassifySource(filePath)

	var chunks []domain.DocChunk
	acc := accumulator{}

	flush := func() {
		if chunk, ok := acc.chunk(meta, filePath, sourceURL); ok {
			chunks = append(chunks, chunk)
		}
	}

	lines := strings.Split(markdown, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := fenceRe.FindStringSubmatch(line); m != nil {
			i = consumeFence(lines, i, m[1], m[2], &acc)
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			acc = accumulator{title: strings.TrimSpace(m[2]), level: len(m[1])}
			continue
		}

		switch {
		case strings.TrimSpace(line) == "":
			acc.closeBlock()
		case listItemRe.MatchString(line):
			item := listItemRe.FindStringSubmatch(line)[1]
			acc.appendTo(blockList, "- "+strings.TrimSpace(item))
		case quoteLineRe.MatchString(line):
			quoted := quoteLineRe.FindStringSubmatch(line)[1]
			acc.appendTo(blockQuote, "> "+strings.TrimSpace(quoted))
		default:
			acc.appendTo(blockParagraph, strings.TrimSpace(line))
		}
	}
	flush()

	return chunks
}

// consumeFence collects a fenced code block, preserving the fence and its
// language tag, and returns the index of the closing fence line. An
// unterminated fence swallows the rest of the document, matching how most
// renderers treat it.
func consumeFence(lines []string, start int, marker, lang string, acc *accumulator) int {
	var body []string
	end := len(lines) - 1
	for j := start + 1; j < len(lines); j++ {
		if m := fenceRe.FindStringSubmatch(lines[j]); m != nil && m[1] == marker {
			end = j
			break
		}
		body = append(body, lines[j])
		end = j
	}

	acc.closeBlock()
	acc.appendTo(blockCode, "```"+lang+"\n"+strings.Join(body, "\n")+"\n```")
	acc.closeBlock()
	return end
}

type blockKind int

const (
	blockNone blockKind = iota
	blockParagraph
	blockList
	blockQuote
	blockCode
)

// accumulator gathers the content blocks under the current heading.
type accumulator struct {
	title   string
	level   int
	blocks  []string
	current blockKind
}

// appendTo adds a line to the current block, starting a new block when
// the kind changes.
func (a *accumulator) appendTo(kind blockKind, line string) {
	if line == "" {
		return
	}
	if a.current == kind && kind != blockCode && len(a.blocks) > 0 {
		sep := " "
		if kind == blockList || kind == blockQuote {
			sep = "\n"
		}
		a.blocks[len(a.blocks)-1] += sep + line
		return
	}
	a.blocks = append(a.blocks, line)
	a.current = kind
}

func (a *accumulator) closeBlock() {
	a.current = blockNone
}

// chunk materialises the accumulator, reporting false when it has no
// heading or no content.
func (a *accumulator) chunk(meta domain.SourceMeta, filePath, sourceURL string) (domain.DocChunk, bool) {
	content := strings.TrimSpace(strings.Join(a.blocks, "\n\n"))
	if a.title == "" || content == "" {
		return domain.DocChunk{}, false
	}
	return domain.DocChunk{
		ID:           uuid.New().String(),
		Title:        a.title,
		Content:      content,
		HeadingLevel: a.level,
		Package:      meta.Package,
		Category:     meta.Category,
		SourceURL:    sourceURL,
		FilePath:     filePath,
	}, true
}
