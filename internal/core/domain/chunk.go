package domain

// Category classifies where a documentation file came from.
type Category string

// Known documentation categories.
const (
	CategoryGuide     Category = "guide"
	CategoryTutorial  Category = "tutorial"
	CategoryAPI       Category = "api"
	CategoryReference Category = "reference"
)

// DocChunk is one heading-scoped slice of a guide or tutorial document.
// Chunks are the unit of full-text search for prose content.
type DocChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Title is the heading text that opened the chunk.
	Title string

	// Content is the concatenated paragraph, code, list and quote text
	// under the heading, up to the next heading of any level.
	Content string

	// HeadingLevel is the markdown heading depth (1-6).
	HeadingLevel int

	// Package is the logical grouping derived from the source path.
	Package string

	// Category classifies the source file (guide, tutorial, api, reference).
	Category Category

	// SourceURL is the browsable location of the source file.
	SourceURL string

	// FilePath is the path of the source file within the docs tree.
	FilePath string
}
