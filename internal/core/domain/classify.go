package domain

import (
	"path"
	"strings"
)

// GuidesPackage is the package assigned to files outside the generated
// API-reference tree.
const GuidesPackage = "guides"

// SourceFile is one raw documentation file obtained from the source-fetch
// collaborator, before parsing.
type SourceFile struct {
	// Path is the file path relative to the docs root.
	Path string

	// Content is the raw markdown text.
	Content []byte

	// SourceURL is the browsable location of the file.
	SourceURL string
}

// SourceMeta is the metadata derived from a documentation file path.
type SourceMeta struct {
	// Package is the logical grouping for the file's entities.
	Package string

	// Category classifies the file.
	Category Category
}

// ClassifySource derives package and category from a docs-relative path.
// It is a pure function of the path string. Both parsers and the index
// builder's reference-parse decision use this single mapping; they must
// never disagree on how a path is classified.
//
// A path under api/<package>/ belongs to that package with category api.
// A file whose name mentions "tutorial" is a tutorial; a path mentioning
// "reference" outside the api tree is reference material. Everything
// else is a guide in the shared guides package.
func ClassifySource(filePath string) SourceMeta {
	norm := strings.ToLower(strings.TrimPrefix(path.Clean(strings.ReplaceAll(filePath, "\\", "/")), "/"))

	if pkg, ok := apiPackage(norm); ok {
		return SourceMeta{Package: pkg, Category: CategoryAPI}
	}

	base := path.Base(norm)
	if strings.Contains(base, "tutorial") {
		return SourceMeta{Package: GuidesPackage, Category: CategoryTutorial}
	}
	if strings.Contains(norm, "reference") {
		return SourceMeta{Package: GuidesPackage, Category: CategoryReference}
	}

	return SourceMeta{Package: GuidesPackage, Category: CategoryGuide}
}

// IsReferencePath reports whether a path holds generated API-reference
// markdown and should be run through the reference parser.
func IsReferencePath(filePath string) bool {
	return ClassifySource(filePath).Category == CategoryAPI
}

// apiPackage extracts the package name from an api/<package>/... path.
// The api segment may appear at any depth.
func apiPackage(norm string) (string, bool) {
	segs := strings.Split(norm, "/")
	for i, seg := range segs {
		if seg != "api" {
			continue
		}
		if i+1 < len(segs)-1 {
			// api/<package>/<more...>
			return segs[i+1], true
		}
		if i+1 == len(segs)-1 {
			// api/<file>.md: package from the file name.
			name := strings.TrimSuffix(segs[i+1], path.Ext(segs[i+1]))
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}
