package autolink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/refsite/internal/symbols"
)

func TestResolveExternal_CallSuffixTolerated(t *testing.T) {
	reg := NewRegistry()
	reg.Register("fmt", "https://pkg.go.dev/fmt")

	out := ResolveExternal("Call `fmt.Println()` to print.", reg)
	assert.Equal(t, "Call [`fmt.Println()`](https://pkg.go.dev/fmt#Println) to print.", out)
}

func TestResolveExternal_TrailingSlashTrimmedOnRegistration(t *testing.T) {
	reg := NewRegistry()
	reg.Register("http", "https://pkg.go.dev/net/http/")

	out := ResolveExternal("Use `http.Client` for requests.", reg)
	assert.Equal(t, "Use [`http.Client`](https://pkg.go.dev/net/http#Client) for requests.", out)
}

func TestFindUndefinedRefs_Deduplicates(t *testing.T) {
	refs := FindUndefinedRefs("`Missing()` and again `Missing()`.", symbols.Index{}, NewRegistry())
	require.Len(t, refs, 1)
	assert.Equal(t, "Missing()", refs[0].Name)
}

func TestSplitDotted(t *testing.T) {
	pkg, sym, ok := splitDotted("http.Client")
	require.True(t, ok)
	assert.Equal(t, "http", pkg)
	assert.Equal(t, "Client", sym)

	// Nested package paths split at the last dot.
	pkg, sym, ok = splitDotted("net/http.Client")
	require.True(t, ok)
	assert.Equal(t, "net/http", pkg)
	assert.Equal(t, "Client", sym)

	_, _, ok = splitDotted("noDotHere")
	assert.False(t, ok)

	_, _, ok = splitDotted("trailing.")
	assert.False(t, ok)

	_, _, ok = splitDotted(".leading")
	assert.False(t, ok)
}
