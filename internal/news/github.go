package news

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// GitHub reference shapes inside changelog items. The three rules apply in
// order over the original text with span tracking, so a link produced by an
// earlier rule is never rematched by a later one.
var (
	crossRepoIssueRx = regexp.MustCompile(`([\w.\-]+/[\w.\-]+)#(\d+)`)
	bareIssueRx      = regexp.MustCompile(`#(\d+)`)
	mentionRx        = regexp.MustCompile(`@([A-Za-z0-9][A-Za-z0-9\-]*)`)
)

type replacement struct {
	start, end int
	text       string
}

// LinkRefs rewrites GitHub references in a changelog item into links:
// `owner/repo#N` to that repository's issue, a bare `#N` to the configured
// repository's issue, and `@name` to the user's profile. The reference text
// stays visible as the link label. repo is the configured `owner/name` slug;
// when empty, bare issue references are left alone.
func LinkRefs(text, repo string) string {
	var reps []replacement

	taken := func(start, end int) bool {
		for _, r := range reps {
			if start < r.end && end > r.start {
				return true
			}
		}
		return false
	}

	for _, m := range crossRepoIssueRx.FindAllStringSubmatchIndex(text, -1) {
		ref := text[m[0]:m[1]]
		slug := text[m[2]:m[3]]
		num := text[m[4]:m[5]]
		reps = append(reps, replacement{m[0], m[1], fmt.Sprintf("[%s](https://github.com/%s/issues/%s)", ref, slug, num)})
	}

	if repo != "" {
		for _, m := range bareIssueRx.FindAllStringSubmatchIndex(text, -1) {
			if taken(m[0], m[1]) {
				continue
			}
			// Not a bare reference when preceded by a path or link opener.
			if m[0] > 0 && (text[m[0]-1] == '/' || text[m[0]-1] == '[') {
				continue
			}
			ref := text[m[0]:m[1]]
			num := text[m[2]:m[3]]
			reps = append(reps, replacement{m[0], m[1], fmt.Sprintf("[%s](https://github.com/%s/issues/%s)", ref, repo, num)})
		}
	}

	for _, m := range mentionRx.FindAllStringSubmatchIndex(text, -1) {
		if taken(m[0], m[1]) {
			continue
		}
		// A word character before the @ means an email-like token.
		if m[0] > 0 && isWordByte(text[m[0]-1]) {
			continue
		}
		// A dotted word after the name also means an email-like token.
		if rest := text[m[1]:]; len(rest) >= 2 && rest[0] == '.' && isWordByte(rest[1]) {
			continue
		}
		ref := text[m[0]:m[1]]
		name := text[m[2]:m[3]]
		reps = append(reps, replacement{m[0], m[1], fmt.Sprintf("[%s](https://github.com/%s)", ref, name)})
	}

	if len(reps) == 0 {
		return text
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i].start < reps[j].start })

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, r := range reps {
		b.WriteString(text[pos:r.start])
		b.WriteString(r.text)
		pos = r.end
	}
	b.WriteString(text[pos:])
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// EscapePipes escapes `|` so rendered text cannot be misread as a table
// column delimiter.
func EscapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
