package linkcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMarkdown(t *testing.T) {
	body := []byte(`# Title

See the [guide](/articles/guide/) and [upstream](https://example.com/docs).

![diagram](images/flow.png)

Direct: <https://example.com/raw>
`)
	refs := ExtractMarkdown(body)
	require.Len(t, refs, 4)

	byURL := make(map[string]Ref)
	for _, ref := range refs {
		byURL[ref.URL] = ref
	}

	guide, ok := byURL["/articles/guide/"]
	require.True(t, ok)
	assert.True(t, guide.IsInternal)
	assert.Equal(t, 3, guide.Line)

	upstream, ok := byURL["https://example.com/docs"]
	require.True(t, ok)
	assert.False(t, upstream.IsInternal)

	img, ok := byURL["images/flow.png"]
	require.True(t, ok)
	assert.True(t, img.IsInternal)
	assert.Equal(t, 5, img.Line)

	_, ok = byURL["https://example.com/raw"]
	assert.True(t, ok)
}

func TestExtractHTML(t *testing.T) {
	doc := []byte(`<html><body>
<a href="https://example.com/page">page</a>
<img src="/static/logo.png">
<a>no destination</a>
</body></html>`)

	refs := ExtractHTML(doc)
	require.Len(t, refs, 2)
	assert.Equal(t, "https://example.com/page", refs[0].URL)
	assert.False(t, refs[0].IsInternal)
	assert.Equal(t, "/static/logo.png", refs[1].URL)
	assert.True(t, refs[1].IsInternal)
}

func TestExtractDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "reference"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "reference", "widget.md"),
		[]byte("[news](/news/)\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"),
		[]byte(`<a href="https://example.com/">home</a>`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"),
		[]byte("[ignored](https://example.com/skip)\n"), 0o600))

	refs, err := ExtractDir(root)
	require.NoError(t, err)
	require.Len(t, refs, 2)

	files := make(map[string]string)
	for _, ref := range refs {
		files[ref.URL] = ref.SourceFile
	}
	assert.Equal(t, filepath.Join("reference", "widget.md"), files["/news/"])
	assert.Equal(t, "index.html", files["https://example.com/"])
}

func TestIsInternal(t *testing.T) {
	assert.True(t, isInternal("/reference/widget/"))
	assert.True(t, isInternal("../news/"))
	assert.True(t, isInternal("#section"))
	assert.False(t, isInternal("https://example.com/"))
	assert.False(t, isInternal("//cdn.example.com/lib.js"))
}

func TestShouldSkip(t *testing.T) {
	assert.True(t, shouldSkip("#anchor"))
	assert.True(t, shouldSkip("mailto:dev@example.com"))
	assert.True(t, shouldSkip("tel:+4712345678"))
	assert.True(t, shouldSkip(""))
	assert.False(t, shouldSkip("https://example.com/"))
	assert.False(t, shouldSkip("/reference/"))
}
