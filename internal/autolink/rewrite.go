package autolink

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/refsite/internal/symbols"
)

// span is one inline code-span found in the source text, delimiters included.
type span struct {
	start, end int    // byte offsets into the source, inclusive of backticks
	inner      string // text between the backticks
	linked     bool   // set once a pass converts the span to a link
}

var identRx = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// scanSpans tokenizes the text into backtick code-spans once, so both
// rewrite passes work over the same token list instead of re-scanning a
// mutated accumulator string.
func scanSpans(text string) []*span {
	var spans []*span
	for i := 0; i < len(text); {
		open := strings.IndexByte(text[i:], '`')
		if open < 0 {
			break
		}
		open += i
		close := strings.IndexByte(text[open+1:], '`')
		if close < 0 {
			break
		}
		close += open + 1
		spans = append(spans, &span{start: open, end: close + 1, inner: text[open+1 : close]})
		i = close + 1
	}
	return spans
}

// Rewrite converts inline code-spans naming indexed symbols into links.
//
// Two passes run over the scanned spans, and the first completes before the
// second begins: exact call-shaped spans `name()` link first, then remaining
// bare-identifier spans. A bare span already sitting inside a markdown link
// destination context is skipped to avoid double-linking. Spans naming
// nothing in the index are left as plain inline code.
func Rewrite(text string, index symbols.Index) string {
	spans := scanSpans(text)
	if len(spans) == 0 {
		return text
	}

	replacements := make(map[*span]string)

	// Pass 1: exact call shape, visible text keeps the parentheses.
	for _, sp := range spans {
		name, ok := strings.CutSuffix(sp.inner, "()")
		if !ok || !identRx.MatchString(name) {
			continue
		}
		if url, found := index[name]; found {
			replacements[sp] = "[`" + sp.inner + "`](" + url + ")"
			sp.linked = true
		}
	}

	// Pass 2: bare identifiers, guarded against spans that pass 1 or the
	// author already placed inside a link.
	for _, sp := range spans {
		if sp.linked || !identRx.MatchString(sp.inner) {
			continue
		}
		if insideLinkContext(text, sp.start) {
			continue
		}
		if url, found := index[sp.inner]; found {
			replacements[sp] = "[`" + sp.inner + "`](" + url + ")"
			sp.linked = true
		}
	}

	if len(replacements) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, sp := range spans {
		rep, ok := replacements[sp]
		if !ok {
			continue
		}
		b.WriteString(text[pos:sp.start])
		b.WriteString(rep)
		pos = sp.end
	}
	b.WriteString(text[pos:])
	return b.String()
}

// insideLinkContext reports whether the span starting at off is already part
// of a markdown link, i.e. immediately preceded by `](` or `[`.
func insideLinkContext(text string, off int) bool {
	if off >= 1 && text[off-1] == '[' {
		return true
	}
	return off >= 2 && text[off-2] == ']' && text[off-1] == '('
}
