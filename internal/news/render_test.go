package news

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_FirstVersionExpanded_RestCollapsed(t *testing.T) {
	versions := Parse(sampleChangelog)
	out := Render(versions, "inful/refsite")

	assert.Contains(t, out, "## 1.2.0 (2024-05-01)\n")
	assert.Contains(t, out, "<summary>1.1.0 (2024-02-10)</summary>")
	assert.Contains(t, out, "<summary>1.0.0</summary>")
	assert.Equal(t, 2, strings.Count(out, "<details>"))
	// The expanded version is not inside a collapsible container.
	assert.Less(t, strings.Index(out, "## 1.2.0"), strings.Index(out, "<details>"))
}

func TestRender_CategoriesSortedLexicographically(t *testing.T) {
	versions := Parse("## 1.0.0\n\n### Security\n\n- s\n\n### Bug fixes\n\n- b\n")
	out := Render(versions, "")

	require.Len(t, versions, 1)
	// Authored Security first, rendered sorted.
	assert.Equal(t, []string{"Security", "Bug fixes"}, versions[0].CategoryOrder)
	assert.Less(t, strings.Index(out, "### Bug fixes"), strings.Index(out, "### Security"))
}

func TestRender_EmptySequence_TitleOnly(t *testing.T) {
	out := Render(nil, "inful/refsite")
	assert.Equal(t, "# Changelog\n", out)
}

func TestRender_EmptyCategoryOmitted(t *testing.T) {
	versions := Parse("## 1.0.0\n\n### Deprecations\n\n### Bug fixes\n\n- b\n")
	out := Render(versions, "")
	assert.NotContains(t, out, "### Deprecations")
	assert.Contains(t, out, "### Bug fixes")
}

func TestRender_ItemsPassThroughRefLinking(t *testing.T) {
	versions := Parse("## 1.0.0\n\n- Fixed bug #42 reported by @alice\n")
	out := Render(versions, "org/repo")

	assert.Contains(t, out, "[#42](https://github.com/org/repo/issues/42)")
	assert.Contains(t, out, "[@alice](https://github.com/alice)")
}

func TestLinkRefs_CrossRepoIssue(t *testing.T) {
	out := LinkRefs("See other/project#7 for context", "org/repo")
	assert.Equal(t, "See [other/project#7](https://github.com/other/project/issues/7) for context", out)
}

func TestLinkRefs_BareIssueNotRelinkedAfterCrossRepoRule(t *testing.T) {
	out := LinkRefs("other/project#7", "org/repo")
	assert.Equal(t, 1, strings.Count(out, "issues/7"))
}

func TestLinkRefs_BareIssueRequiresConfiguredRepo(t *testing.T) {
	in := "Fixed #42"
	assert.Equal(t, in, LinkRefs(in, ""))
}

func TestLinkRefs_AlreadyLinkedIssueSkipped(t *testing.T) {
	in := "See [#42](https://example.com/42)"
	out := LinkRefs(in, "org/repo")
	assert.Equal(t, in, out)
}

func TestLinkRefs_MentionGuards(t *testing.T) {
	assert.Equal(t, "mail me at alice@example.com", LinkRefs("mail me at alice@example.com", "org/repo"))
	assert.Equal(t, "thanks [@bob](https://github.com/bob)!", LinkRefs("thanks @bob!", "org/repo"))
}

func TestEscapePipes(t *testing.T) {
	assert.Equal(t, `a \| b`, EscapePipes("a | b"))
}

func TestParseRender_RoundTripPreservesItemText(t *testing.T) {
	versions := Parse(sampleChangelog)
	out := Render(versions, "")
	for _, v := range versions {
		for _, items := range v.Categories {
			for _, item := range items {
				assert.Contains(t, out, "- "+item+"\n")
			}
		}
	}
}
