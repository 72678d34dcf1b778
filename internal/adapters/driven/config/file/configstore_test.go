package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBranch, cfg.Repository.Branch)
	assert.Equal(t, DefaultDocsPath, cfg.Repository.DocsPath)
	assert.Equal(t, DefaultTokenEnv, cfg.GitHub.TokenEnv)
	assert.Empty(t, cfg.Repository.Owner)
}

func TestLoad_ParsesFileAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[repository]
owner = "acme"
name = "sdk-docs"

[github]
token_env = "ACME_TOKEN"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Repository.Owner)
	assert.Equal(t, "sdk-docs", cfg.Repository.Name)
	assert.Equal(t, DefaultBranch, cfg.Repository.Branch)
	assert.Equal(t, DefaultDocsPath, cfg.Repository.DocsPath)
	assert.Equal(t, "ACME_TOKEN", cfg.GitHub.TokenEnv)
}

func TestLoad_UnparseableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	saved := &Config{
		Repository: RepositoryConfig{
			Owner:    "acme",
			Name:     "sdk-docs",
			Branch:   "release",
			DocsPath: "documentation",
		},
		Index:  IndexConfig{DataDir: "/tmp/docdex"},
		GitHub: GitHubConfig{TokenEnv: "ACME_TOKEN"},
	}
	require.NoError(t, Save(path, saved))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository.owner")

	cfg.Repository.Owner = "acme"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository.name")

	cfg.Repository.Name = "sdk-docs"
	assert.NoError(t, cfg.Validate())
}

func TestGitHubConfig_Token(t *testing.T) {
	t.Setenv("DOCDEX_TEST_TOKEN", "ghp_secret")

	cfg := GitHubConfig{TokenEnv: "DOCDEX_TEST_TOKEN"}
	assert.Equal(t, "ghp_secret", cfg.Token())

	cfg.TokenEnv = "DOCDEX_TEST_TOKEN_UNSET"
	assert.Empty(t, cfg.Token())
}
