package docmodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `Parse reads a changelog document.

# Usage

	versions := Parse(text)
	render(versions)

Note: the parser never fails on malformed input.

> Items keep their authored order.
`

func TestParseBlocks_ClassifiesEachVariant(t *testing.T) {
	blocks := ParseBlocks(sampleDoc)
	require.Len(t, blocks, 5)

	assert.Equal(t, KindParagraph, blocks[0].Kind)
	assert.Equal(t, "Parse reads a changelog document.", blocks[0].Text)

	assert.Equal(t, KindHeading, blocks[1].Kind)
	assert.Equal(t, 1, blocks[1].Level)
	assert.Equal(t, "Usage", blocks[1].Text)

	assert.Equal(t, KindCode, blocks[2].Kind)
	assert.Equal(t, []string{"versions := Parse(text)", "render(versions)"}, blocks[2].Lines)

	assert.Equal(t, KindAdmonition, blocks[3].Kind)
	assert.Equal(t, "Note", blocks[3].Label)
	assert.Equal(t, "the parser never fails on malformed input.", blocks[3].Text)

	assert.Equal(t, KindContainer, blocks[4].Kind)
	assert.Equal(t, "Items keep their authored order.", blocks[4].Text)
}

func TestParseBlocks_FencedCode(t *testing.T) {
	blocks := ParseBlocks("Before.\n\n```\nx := 1\n```\n\nAfter.")
	require.Len(t, blocks, 3)
	assert.Equal(t, KindCode, blocks[1].Kind)
	assert.Equal(t, []string{"x := 1"}, blocks[1].Lines)
}

func TestParseBlocks_MultiLineParagraphJoined(t *testing.T) {
	blocks := ParseBlocks("line one\nline two\n")
	require.Len(t, blocks, 1)
	assert.Equal(t, "line one line two", blocks[0].Text)
}

func TestParseBlocks_Empty(t *testing.T) {
	assert.Empty(t, ParseBlocks(""))
}

func TestFormat_CodeNeverRewritten(t *testing.T) {
	called := false
	link := func(s string) string { called = true; return s }

	out := Format(Block{Kind: KindCode, Lines: []string{"Parse()"}}, link)
	assert.False(t, called)
	assert.Equal(t, "```go\nParse()\n```\n", out)
}

func TestFormat_ProseGoesThroughLinker(t *testing.T) {
	link := func(s string) string { return strings.ToUpper(s) }

	assert.Equal(t, "HELLO\n", Format(Block{Kind: KindParagraph, Text: "hello"}, link))
	assert.Equal(t, "> **Warning:** CAREFUL\n", Format(Block{Kind: KindAdmonition, Label: "Warning", Text: "careful"}, link))
}

func TestFormat_HeadingShiftedBelowPageTitle(t *testing.T) {
	out := Format(Block{Kind: KindHeading, Level: 1, Text: "Usage"}, nil)
	assert.Equal(t, "### Usage\n", out)
}

func TestFormat_UnknownKindPassesThrough(t *testing.T) {
	out := Format(Block{Kind: KindUnknown, Text: "mystery"}, nil)
	assert.Equal(t, "mystery\n", out)
}
