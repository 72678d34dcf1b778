package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
	"github.com/custodia-labs/docdex/internal/logger"
)

// MaxFileSize is the largest documentation file fetched (1MB). The
// trees API reports sizes up front, so larger files are skipped without
// a blob call.
const MaxFileSize = 1024 * 1024

// Ensure the interface is implemented.
var _ driven.SourceFetcher = (*Fetcher)(nil)

// Fetcher retrieves markdown documentation files from one repository
// subtree via the Git trees API.
type Fetcher struct {
	client *Client
	cfg    Config
}

// NewFetcher creates a fetcher for the configured repository.
func NewFetcher(client *Client, cfg Config) (*Fetcher, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Fetcher{client: client, cfg: cfg}, nil
}

// Fetch returns every markdown file under the configured docs path.
// Files that cannot be read or decoded are skipped; a failed tree fetch
// fails the whole call.
func (f *Fetcher) Fetch(ctx context.Context) ([]domain.SourceFile, error) {
	tree, err := f.client.GetTree(ctx, f.cfg.Owner, f.cfg.Repo, f.cfg.Branch)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s/%s@%s", ErrRepoNotFound, f.cfg.Owner, f.cfg.Repo, f.cfg.Branch)
		}
		return nil, fmt.Errorf("fetching tree: %w", err)
	}

	prefix := ""
	if f.cfg.DocsPath != "" {
		prefix = f.cfg.DocsPath + "/"
	}

	var files []domain.SourceFile
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		path := entry.GetPath()
		if prefix != "" && !strings.HasPrefix(path, prefix) {
			continue
		}
		if !isMarkdown(path) {
			continue
		}
		if entry.GetSize() > MaxFileSize {
			logger.Debug("Skipping oversized file %s (%d bytes)", path, entry.GetSize())
			continue
		}

		content, err := f.fetchBlob(ctx, entry.GetSHA())
		if err != nil {
			logger.Warn("Skipping unreadable file %s: %v", path, err)
			continue
		}

		files = append(files, domain.SourceFile{
			Path:      strings.TrimPrefix(path, prefix),
			Content:   content,
			SourceURL: f.sourceURL(path),
		})
	}

	logger.Debug("Fetched %d markdown files from %s/%s", len(files), f.cfg.Owner, f.cfg.Repo)
	return files, nil
}

// fetchBlob fetches and decodes one blob.
func (f *Fetcher) fetchBlob(ctx context.Context, sha string) ([]byte, error) {
	blob, err := f.client.GetBlob(ctx, f.cfg.Owner, f.cfg.Repo, sha)
	if err != nil {
		return nil, err
	}

	if blob.GetEncoding() == "base64" {
		raw := strings.ReplaceAll(blob.GetContent(), "\n", "")
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding blob: %w", err)
		}
		return decoded, nil
	}

	return []byte(blob.GetContent()), nil
}

// sourceURL builds the browsable URL for a repository path.
func (f *Fetcher) sourceURL(path string) string {
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", f.cfg.Owner, f.cfg.Repo, f.cfg.Branch, path)
}

func isMarkdown(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".mdx")
}
