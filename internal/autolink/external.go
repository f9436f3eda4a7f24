package autolink

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/refsite/internal/symbols"
)

// ResolveExternal rewrites dotted code-spans of the shape `Package.Symbol`
// into links against the registry. Only registered package names resolve;
// everything else is left untouched.
func ResolveExternal(text string, reg *Registry) string {
	spans := scanSpans(text)
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, sp := range spans {
		pkg, sym, ok := splitDotted(sp.inner)
		if !ok {
			continue
		}
		base, found := reg.BaseURL(pkg)
		if !found {
			continue
		}
		b.WriteString(text[pos:sp.start])
		b.WriteString("[`" + sp.inner + "`](" + base + "#" + sym + ")")
		pos = sp.end
	}
	b.WriteString(text[pos:])
	return b.String()
}

// Ref is one unresolved cross-reference found in a text.
type Ref struct {
	Name string // The code-span content as written
}

// FindUndefinedRefs lists reference-shaped code-spans that resolve against
// neither the symbol index nor the registry. Diagnostic only; the text is
// not modified. Results are deduplicated and sorted.
func FindUndefinedRefs(text string, index symbols.Index, reg *Registry) []Ref {
	seen := make(map[string]bool)
	var refs []Ref
	for _, sp := range scanSpans(text) {
		name := sp.inner
		if pkg, _, ok := splitDotted(name); ok {
			if _, found := reg.BaseURL(pkg); found {
				continue
			}
			if _, found := index[name]; found {
				continue
			}
		} else if bare, ok := strings.CutSuffix(name, "()"); ok && identRx.MatchString(bare) {
			if _, found := index[bare]; found {
				continue
			}
		} else {
			// Bare identifiers are too ambiguous to report as undefined;
			// prose words in code style are common and legitimate.
			continue
		}
		if !seen[name] {
			seen[name] = true
			refs = append(refs, Ref{Name: name})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs
}

// splitDotted splits `Package.Symbol` at the last dot. The symbol part must
// be a plain identifier; a trailing call suffix is tolerated and stripped.
func splitDotted(s string) (pkg, sym string, ok bool) {
	s = strings.TrimSuffix(s, "()")
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	pkg, sym = s[:i], s[i+1:]
	if !identRx.MatchString(sym) || strings.Contains(sym, ".") {
		return "", "", false
	}
	return pkg, sym, true
}
