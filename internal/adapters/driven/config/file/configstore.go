// Package file loads and persists the docdex configuration from a TOML
// file, by default ~/.docdex/config.toml.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultBranch   = "main"
	DefaultDocsPath = "docs"
	DefaultTokenEnv = "GITHUB_TOKEN"
)

// Config is the persisted docdex configuration.
type Config struct {
	// Repository identifies the documentation source.
	Repository RepositoryConfig `toml:"repository"`

	// Index configures local index storage.
	Index IndexConfig `toml:"index"`

	// GitHub configures API authentication.
	GitHub GitHubConfig `toml:"github"`
}

// RepositoryConfig identifies the repository and subtree to index.
type RepositoryConfig struct {
	// Owner is the repository owner (user or organization).
	Owner string `toml:"owner"`

	// Name is the repository name.
	Name string `toml:"name"`

	// Branch is the branch to read. Defaults to main.
	Branch string `toml:"branch"`

	// DocsPath is the subdirectory holding the documentation.
	// Defaults to docs.
	DocsPath string `toml:"docs_path"`
}

// IndexConfig configures where index databases are written.
type IndexConfig struct {
	// DataDir holds the index database files.
	// Defaults to ~/.docdex/data.
	DataDir string `toml:"data_dir"`
}

// GitHubConfig configures API authentication.
type GitHubConfig struct {
	// TokenEnv names the environment variable holding a personal access
	// token. Defaults to GITHUB_TOKEN. An unset variable means
	// unauthenticated access.
	TokenEnv string `toml:"token_env"`
}

// Token reads the access token from the configured environment variable.
func (c *GitHubConfig) Token() string {
	return os.Getenv(c.TokenEnv)
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	if c.Repository.Branch == "" {
		c.Repository.Branch = DefaultBranch
	}
	if c.Repository.DocsPath == "" {
		c.Repository.DocsPath = DefaultDocsPath
	}
	if c.GitHub.TokenEnv == "" {
		c.GitHub.TokenEnv = DefaultTokenEnv
	}
}

// Validate checks that the config identifies a repository.
func (c *Config) Validate() error {
	if c.Repository.Owner == "" {
		return fmt.Errorf("repository.owner is required")
	}
	if c.Repository.Name == "" {
		return fmt.Errorf("repository.name is required")
	}
	return nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docdex", "config.toml"), nil
}

// Load reads the configuration from path. A missing file yields the
// defaults; an unparseable file is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the configuration to path with restricted permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
