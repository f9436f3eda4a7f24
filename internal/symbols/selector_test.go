package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModule(names ...string) *Module {
	m := &Module{Name: "demo"}
	for _, n := range names {
		m.Symbols = append(m.Symbols, Symbol{Name: n, Kind: KindFunc})
	}
	return m
}

func TestParseSelector_Literal(t *testing.T) {
	sel, err := ParseSelector("Parse")
	require.NoError(t, err)
	assert.True(t, sel.Match("Parse"))
	assert.False(t, sel.Match("ParseFile"))
}

func TestParseSelector_Calls(t *testing.T) {
	tests := []struct {
		entry   string
		match   string
		noMatch string
	}{
		{`starts_with("New")`, "NewIndex", "Index"},
		{`ends_with("Error")`, "ParseError", "ErrorParse"},
		{`matches("^Render")`, "RenderNews", "NewsRender"},
	}
	for _, tt := range tests {
		sel, err := ParseSelector(tt.entry)
		require.NoError(t, err, tt.entry)
		assert.True(t, sel.Match(tt.match), tt.entry)
		assert.False(t, sel.Match(tt.noMatch), tt.entry)
	}
}

func TestParseSelector_BadPattern_ReturnsError(t *testing.T) {
	_, err := ParseSelector(`matches("(")`)
	require.Error(t, err)
}

func TestPartition_FirstMatchWins(t *testing.T) {
	m := testModule("ParseNews", "RenderNews", "NewIndex")
	groups := []Group{
		{Title: "Parsing", Contents: []Selector{StartsWith("Parse"), Literal("RenderNews")}},
		{Title: "Everything", Contents: []Selector{Predicate("all", func(string) bool { return true })}},
	}

	results, ungrouped := Partition(groups, m)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"ParseNews", "RenderNews"}, results[0].Symbols)
	assert.Equal(t, []string{"NewIndex"}, results[1].Symbols)
	assert.Empty(t, ungrouped)
}

func TestPartition_UnmatchedSymbolsReportedInModuleOrder(t *testing.T) {
	m := testModule("Zeta", "Alpha", "ParseNews")
	groups := []Group{{Title: "Parsing", Contents: []Selector{StartsWith("Parse")}}}

	results, ungrouped := Partition(groups, m)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"ParseNews"}, results[0].Symbols)
	assert.Equal(t, []string{"Zeta", "Alpha"}, ungrouped)
}

func TestBuildIndex_LastWriteWins(t *testing.T) {
	m := testModule("Parse", "Render", "Parse")
	idx := BuildIndex(m)

	require.Len(t, idx, 2)
	assert.Equal(t, "/reference/parse/", idx["Parse"])
	assert.Equal(t, "/reference/render/", idx["Render"])
}

func TestSlug_MethodNamesUseHyphens(t *testing.T) {
	assert.Equal(t, "/reference/generator-build/", PageURL("Generator.Build"))
}
