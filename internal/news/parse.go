// Package news parses a free-form Markdown changelog into structured version
// records and renders them back as a collapsible changelog page.
//
// There is no formal grammar for changelog files in the wild; recognition is
// heuristic, with an ordered pattern list where the more specific pattern
// always wins over the more general one.
package news

import (
	"bufio"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/refsite/internal/logfields"
)

// DefaultCategory collects items of a version that declares no category.
const DefaultCategory = "Changes"

// Version is one parsed changelog entry.
//
// Version labels are free-form; no semantic-version validity is implied.
// Categories preserves item order within each category; CategoryOrder
// records first-seen category order for callers that care about it.
type Version struct {
	Label         string
	Date          string
	Categories    map[string][]string
	CategoryOrder []string
}

func newVersion(label, date string) *Version {
	return &Version{
		Label:      strings.TrimSpace(label),
		Date:       strings.TrimSpace(date),
		Categories: make(map[string][]string),
	}
}

func (v *Version) addItem(category, item string) {
	if _, ok := v.Categories[category]; !ok {
		v.CategoryOrder = append(v.CategoryOrder, category)
	}
	v.Categories[category] = append(v.Categories[category], item)
}

func (v *Version) ensureCategory(category string) {
	if _, ok := v.Categories[category]; !ok {
		v.Categories[category] = nil
		v.CategoryOrder = append(v.CategoryOrder, category)
	}
}

// Header patterns, in priority order. They are not mutually exclusive: a
// bare "1.2.0 - 2024-05-01" line also matches the name pattern with a bogus
// split (name "1.2.0 -", version "2024-05-01"), which plausibleName rejects
// so the bare pattern gets the line.
var (
	// "# name 1.2.0 (2024-05-01)" — package/product name, digit-led version,
	// optional parenthesized date.
	pkgVersionRx = regexp.MustCompile(`^(#{1,2})\s+(.+?)\s+v?(\d[\w.\-]*)(?:\s+\((.*)\))?\s*$`)

	// "# 1.2.0 - free text" — just a version number, optional date or
	// description after a dash, or a parenthesized date.
	bareVersionRx = regexp.MustCompile(`^(#{1,2})\s+v?(\d[\w.\-]*)(?:\s*[-–]\s*(.*)|\s+\((.*)\))?\s*$`)

	// "# Version next (2024-05-01)" — the literal word Version followed by
	// any label, one or two leading header markers.
	versionWordRx = regexp.MustCompile(`^(#{1,2})\s+[Vv]ersion\s+(\S+)(?:\s+\((.*)\))?\s*$`)

	categoryRx    = regexp.MustCompile(`^(#{2,3})\s+(.+?)\s*$`)
	listItemRx    = regexp.MustCompile(`^\s*[-*]\s+(.+)$`)
	versionLikeRx = regexp.MustCompile(`^v?\d[\w.\-]*$`)
)

// plausibleName rejects captured package-name text that is really a stray
// version or dash greedily absorbed from a bare-version header such as
// "## 1.2.0 - 2024-05-01": a real name never ends in a dash or a
// version-like token.
func plausibleName(name string) bool {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return false
	}
	last := fields[len(fields)-1]
	if last == "-" || last == "–" || versionLikeRx.MatchString(last) {
		return false
	}
	return true
}

// matchVersionHeader tries each version pattern in turn, stopping at the
// first match. level is the heading depth of the matched header.
func matchVersionHeader(line string) (label, date string, level int, ok bool) {
	if m := pkgVersionRx.FindStringSubmatch(line); m != nil && plausibleName(m[2]) {
		return m[3], m[4], len(m[1]), true
	}
	if m := bareVersionRx.FindStringSubmatch(line); m != nil {
		date := m[3]
		if date == "" {
			date = m[4]
		}
		return m[2], date, len(m[1]), true
	}
	if m := versionWordRx.FindStringSubmatch(line); m != nil {
		return m[2], m[3], len(m[1]), true
	}
	return "", "", 0, false
}

// matchCategoryHeader recognizes a header exactly one level deeper than the
// open version's header. Text that itself looks like a version number, or
// starts with the word "Version", is rejected so a malformed version header
// is not misfiled as a category.
func matchCategoryHeader(line string, versionLevel int) (string, bool) {
	m := categoryRx.FindStringSubmatch(line)
	if m == nil || len(m[1]) != versionLevel+1 {
		return "", false
	}
	text := strings.TrimSpace(m[2])
	if versionLikeRx.MatchString(text) || strings.HasPrefix(text, "Version ") || text == "Version" {
		return "", false
	}
	return text, true
}

// Parse converts a changelog document into version records, preserving
// document order (most-recent-declared-first in a conventional changelog).
//
// Lines that match no pattern are legal free text and are ignored; parsing
// never fails on malformed input.
func Parse(text string) []*Version {
	var (
		out          []*Version
		current      *Version
		currentLevel int
		category     string
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if label, date, level, ok := matchVersionHeader(line); ok {
			if current != nil {
				out = append(out, current)
			}
			current = newVersion(label, date)
			currentLevel = level
			category = DefaultCategory
			continue
		}
		if current == nil {
			continue
		}
		if name, ok := matchCategoryHeader(line, currentLevel); ok {
			category = name
			current.ensureCategory(category)
			continue
		}
		if m := listItemRx.FindStringSubmatch(line); m != nil {
			current.addItem(category, strings.TrimSpace(m[1]))
		}
	}

	if current != nil {
		out = append(out, current)
	}
	return out
}

// ParseFile reads and parses a changelog file. A missing file is nothing to
// do, not an error: it yields an empty sequence.
func ParseFile(path string) ([]*Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("No changelog file found", logfields.Path(path))
			return nil, nil
		}
		return nil, err
	}
	return Parse(string(data)), nil
}
