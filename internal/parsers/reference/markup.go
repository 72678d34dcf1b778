package reference

import (
	"regexp"
	"strings"
)

var (
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	refLinkRe    = regexp.MustCompile(`\[([^\]]+)\]\[[^\]]*\]`)
	codeSpanRe   = regexp.MustCompile("`([^`]*)`")
	emphasisRe   = regexp.MustCompile(`(\*\*|__|\*|_)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// stripInline reduces markdown inline markup to plain text: images are
// dropped, links and code spans keep their text, emphasis markers are
// removed and whitespace is collapsed.
func stripInline(s string) string {
	s = imageRe.ReplaceAllString(s, "")
	s = linkRe.ReplaceAllString(s, "$1")
	s = refLinkRe.ReplaceAllString(s, "$1")
	s = codeSpanRe.ReplaceAllString(s, "$1")
	s = emphasisRe.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
