package github

import (
	"fmt"
	"strings"
)

// Defaults applied by Config.Normalize.
const (
	DefaultBranch   = "main"
	DefaultDocsPath = "docs"
)

// Config identifies the repository and subtree to index.
type Config struct {
	// Owner is the repository owner (user or organization).
	Owner string

	// Repo is the repository name.
	Repo string

	// Branch is the branch to read. Defaults to main.
	Branch string

	// DocsPath is the repository subdirectory holding the documentation.
	// Defaults to docs. Empty after normalization means the repo root.
	DocsPath string

	// Token is a personal access token. Empty means unauthenticated.
	Token string
}

// Normalize applies defaults and canonicalizes the docs path.
func (c *Config) Normalize() {
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if c.DocsPath == "" {
		c.DocsPath = DefaultDocsPath
	}
	c.DocsPath = strings.Trim(c.DocsPath, "/")
	if c.DocsPath == "." {
		c.DocsPath = ""
	}
}

// Validate checks that the config identifies a repository.
func (c *Config) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("%w: owner is required", ErrConfigInvalid)
	}
	if c.Repo == "" {
		return fmt.Errorf("%w: repo is required", ErrConfigInvalid)
	}
	return nil
}
