package news

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChangelog = `# Changelog

## refsite 1.2.0 (2024-05-01)

### Bug fixes

- Fixed crash on empty index (#42).
- Stopped dropping trailing items.

### New features

- Added selector combinators.

## refsite 1.1.0 (2024-02-10)

Intro prose between headers is ignored.

- Item without a category header.

## 1.0.0

- Initial release.
`

func TestParse_DocumentOrderPreserved(t *testing.T) {
	versions := Parse(sampleChangelog)
	require.Len(t, versions, 3)
	assert.Equal(t, "1.2.0", versions[0].Label)
	assert.Equal(t, "1.1.0", versions[1].Label)
	assert.Equal(t, "1.0.0", versions[2].Label)
}

func TestParse_PackageVersionHeader_CapturesDate(t *testing.T) {
	versions := Parse(sampleChangelog)
	require.NotEmpty(t, versions)
	assert.Equal(t, "2024-05-01", versions[0].Date)
}

func TestParse_CategoriesKeepFirstSeenOrderAndAllItems(t *testing.T) {
	versions := Parse(sampleChangelog)
	require.Len(t, versions, 3)

	v := versions[0]
	assert.Equal(t, []string{"Bug fixes", "New features"}, v.CategoryOrder)
	assert.Equal(t, []string{
		"Fixed crash on empty index (#42).",
		"Stopped dropping trailing items.",
	}, v.Categories["Bug fixes"])
	assert.Equal(t, []string{"Added selector combinators."}, v.Categories["New features"])
}

func TestParse_ItemsWithoutCategory_UseDefaultCategory(t *testing.T) {
	versions := Parse(sampleChangelog)
	require.Len(t, versions, 3)
	assert.Equal(t, []string{"Item without a category header."}, versions[1].Categories[DefaultCategory])
	assert.Equal(t, []string{"Initial release."}, versions[2].Categories[DefaultCategory])
}

func TestParse_DashDateHeader_NotMistakenForNamedVersion(t *testing.T) {
	// The "name version" pattern would split this as name "1.2.0 -" and
	// version "2024-05-01". "1.2.0 -" is no package name, so the line is a
	// bare version with a dash date.
	versions := Parse("## 1.2.0 - 2024-05-01\n\n- An item.\n")
	require.Len(t, versions, 1)
	assert.Equal(t, "1.2.0", versions[0].Label)
	assert.Equal(t, "2024-05-01", versions[0].Date)
}

func TestParse_DashSuffixWithParens_StaysBareVersion(t *testing.T) {
	versions := Parse("## 1.5 - v2.0 (2024-05-01)\n\n- An item.\n")
	require.Len(t, versions, 1)
	assert.Equal(t, "1.5", versions[0].Label)
	assert.Equal(t, "v2.0 (2024-05-01)", versions[0].Date)
}

func TestParse_BareVersionVariants(t *testing.T) {
	tests := []struct {
		line  string
		label string
		date  string
	}{
		{"## 1.2.0", "1.2.0", ""},
		{"## v1.2.0", "1.2.0", ""},
		{"## 1.2.0 - May release", "1.2.0", "May release"},
		{"## 1.2.0 - 2024-05-01", "1.2.0", "2024-05-01"},
		{"## 1.2.0 (2024-05-01)", "1.2.0", "2024-05-01"},
		{"## 1.2.0-rc.1", "1.2.0-rc.1", ""},
	}
	for _, tt := range tests {
		versions := Parse(tt.line + "\n- x\n")
		require.Len(t, versions, 1, tt.line)
		assert.Equal(t, tt.label, versions[0].Label, tt.line)
		assert.Equal(t, tt.date, versions[0].Date, tt.line)
	}
}

func TestParse_VersionWordHeader_NonNumericLabel(t *testing.T) {
	versions := Parse("# Version next (2024-06-01)\n\n- Upcoming work.\n")
	require.Len(t, versions, 1)
	assert.Equal(t, "next", versions[0].Label)
	assert.Equal(t, "2024-06-01", versions[0].Date)
}

func TestParse_CategoryGuard_VersionLikeHeadingNotACategory(t *testing.T) {
	// A malformed deeper version heading must not become a category.
	versions := Parse("## pkg 1.0.0\n\n### v2.0.0beta\n\n- Item lands in the default category.\n")
	require.Len(t, versions, 1)
	assert.NotContains(t, versions[0].Categories, "v2.0.0beta")
	assert.Equal(t, []string{"Item lands in the default category."}, versions[0].Categories[DefaultCategory])
}

func TestParse_CategoryGuard_VersionWordHeadingNotACategory(t *testing.T) {
	versions := Parse("## pkg 1.0.0\n\n### Version unknown\n\n- Item.\n")
	require.Len(t, versions, 1)
	assert.NotContains(t, versions[0].Categories, "Version unknown")
}

func TestParse_CategoryMustBeOneLevelDeeper(t *testing.T) {
	// Version at level 2; a level-2 heading with prose text is not a
	// category and is ignored.
	versions := Parse("## 1.0.0\n\n## Acknowledgements and thanks\n\n### Bug fixes\n\n- Fixed.\n")
	require.Len(t, versions, 1)
	assert.NotContains(t, versions[0].Categories, "Acknowledgements and thanks")
	assert.Equal(t, []string{"Fixed."}, versions[0].Categories["Bug fixes"])
}

func TestParse_ContentBeforeFirstVersion_Ignored(t *testing.T) {
	versions := Parse("Some prose.\n\n- stray bullet\n\n### stray category\n")
	assert.Empty(t, versions)
}

func TestParse_EmptyDocument_ReturnsEmptySequence(t *testing.T) {
	assert.Empty(t, Parse(""))
}

func TestParse_StarBullets(t *testing.T) {
	versions := Parse("## 1.0.0\n\n* Star item.\n")
	require.Len(t, versions, 1)
	assert.Equal(t, []string{"Star item."}, versions[0].Categories[DefaultCategory])
}

func TestParseFile_MissingFile_ReturnsEmptyNotError(t *testing.T) {
	versions, err := ParseFile(filepath.Join(t.TempDir(), "NEWS.md"))
	require.NoError(t, err)
	assert.Empty(t, versions)
}
