package symbols

import (
	"fmt"
	"regexp"
	"strings"
)

// Selector decides whether a symbol name belongs to a reference group.
type Selector interface {
	Match(name string) bool
	String() string
}

type literal struct{ name string }

func (l literal) Match(name string) bool { return name == l.name }
func (l literal) String() string         { return l.name }

type prefix struct{ p string }

func (s prefix) Match(name string) bool { return strings.HasPrefix(name, s.p) }
func (s prefix) String() string         { return fmt.Sprintf("starts_with(%q)", s.p) }

type suffix struct{ s string }

func (s suffix) Match(name string) bool { return strings.HasSuffix(name, s.s) }
func (s suffix) String() string         { return fmt.Sprintf("ends_with(%q)", s.s) }

type pattern struct{ re *regexp.Regexp }

func (s pattern) Match(name string) bool { return s.re.MatchString(name) }
func (s pattern) String() string         { return fmt.Sprintf("matches(%q)", s.re.String()) }

type fn struct {
	f    func(string) bool
	desc string
}

func (s fn) Match(name string) bool { return s.f(name) }
func (s fn) String() string         { return s.desc }

// Literal selects exactly the named symbol.
func Literal(name string) Selector { return literal{name} }

// StartsWith selects symbols whose name begins with p.
func StartsWith(p string) Selector { return prefix{p} }

// EndsWith selects symbols whose name ends with s.
func EndsWith(s string) Selector { return suffix{s} }

// Matches selects symbols whose name matches the regular expression.
func Matches(expr string) (Selector, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid selector pattern %q: %w", expr, err)
	}
	return pattern{re}, nil
}

// Predicate wraps an arbitrary predicate function as a selector.
func Predicate(desc string, f func(string) bool) Selector { return fn{f, desc} }

var selectorCallRx = regexp.MustCompile(`^(starts_with|ends_with|matches)\("(.*)"\)$`)

// ParseSelector parses one `contents` entry from configuration.
//
// Entries are either a literal symbol name or one of the selector calls
// starts_with("p"), ends_with("s"), matches("re").
func ParseSelector(entry string) (Selector, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil, fmt.Errorf("empty selector entry")
	}
	m := selectorCallRx.FindStringSubmatch(entry)
	if m == nil {
		return Literal(entry), nil
	}
	switch m[1] {
	case "starts_with":
		return StartsWith(m[2]), nil
	case "ends_with":
		return EndsWith(m[2]), nil
	default:
		return Matches(m[2])
	}
}

// Group is an author-declared reference group.
type Group struct {
	Title       string
	Description string
	Contents    []Selector
}

// GroupResult is one group's resolved symbol list, in module order.
type GroupResult struct {
	Title       string
	Description string
	Symbols     []string
}

// Partition assigns each symbol to at most one group.
//
// Selectors apply in declaration order, and a symbol matched by an earlier
// group is never matched again by a later one. Symbols matched by no group
// are returned separately, in module order.
func Partition(groups []Group, m *Module) (results []GroupResult, ungrouped []string) {
	used := make(map[string]bool, len(m.Symbols))

	results = make([]GroupResult, 0, len(groups))
	for _, g := range groups {
		res := GroupResult{Title: g.Title, Description: g.Description}
		for _, s := range m.Symbols {
			if used[s.Name] {
				continue
			}
			for _, sel := range g.Contents {
				if sel.Match(s.Name) {
					used[s.Name] = true
					res.Symbols = append(res.Symbols, s.Name)
					break
				}
			}
		}
		results = append(results, res)
	}

	for _, s := range m.Symbols {
		if !used[s.Name] {
			ungrouped = append(ungrouped, s.Name)
		}
	}
	return results, ungrouped
}

// Slug converts a symbol name to a URL-safe page slug.
// This matches the renderer's URL generation behavior.
func Slug(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, ".", "-")
	return s
}
