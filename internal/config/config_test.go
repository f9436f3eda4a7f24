package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rserrors "git.home.luguber.info/inful/refsite/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MinimalConfigIsValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, "module:\n  path: ./pkg\n"))
	require.NoError(t, err)

	assert.Equal(t, "./pkg", cfg.Module.Path)
	assert.Equal(t, "NEWS.md", cfg.News.Path)
	assert.Equal(t, "./site", cfg.Output.Directory)
	assert.Equal(t, 10, cfg.LinkCheck.TimeoutSeconds)
	assert.Equal(t, 8, cfg.LinkCheck.MaxConcurrent)
}

func TestLoad_MissingModule_IsFatalConfigError(t *testing.T) {
	_, err := Load(writeConfig(t, "site:\n  title: Docs\n"))
	require.Error(t, err)

	var se *rserrors.SiteError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.IsFatal())
	assert.Equal(t, rserrors.CategoryConfig, se.Category)
}

func TestLoad_MissingFile_ReturnsFatalError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("DOCS_TITLE", "My Library")
	cfg, err := Load(writeConfig(t, "module:\n  path: ./pkg\nsite:\n  title: ${DOCS_TITLE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "My Library", cfg.Site.Title)
}

func TestLoad_SectionDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
module:
  path: ./pkg
sections:
  - title: Articles
    directory: articles
    dropdown: true
`))
	require.NoError(t, err)
	require.Len(t, cfg.Sections, 1)
	assert.Equal(t, 8, cfg.Sections[0].DropdownItemLimit)
}

func TestValidate_SectionWithoutDirectory_Fatal(t *testing.T) {
	_, err := Load(writeConfig(t, "module:\n  path: ./pkg\nsections:\n  - title: Articles\n"))
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refsite.yaml")
	require.NoError(t, Init(path, false))

	// The starter file must load cleanly.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Module.Path)

	// A second init refuses to clobber the file without force.
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))
}

func TestSlugFromRemote(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/org/repo.git", "org/repo"},
		{"https://github.com/org/repo", "org/repo"},
		{"git@github.com:org/repo.git", "org/repo"},
		{"ssh://git@git.home.luguber.info/inful/refsite.git", "inful/refsite"},
		{"https://gitlab.com/group/subgroup/repo", "subgroup/repo"},
		{"not-a-remote", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlugFromRemote(tt.url), tt.url)
	}
}

func TestDetectRepo_NoRepository_ReturnsEmpty(t *testing.T) {
	assert.Empty(t, DetectRepo(t.TempDir()))
}
