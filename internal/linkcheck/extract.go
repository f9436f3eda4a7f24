// Package linkcheck extracts references from generated output and probes
// them, producing a pass/fail report.
package linkcheck

import (
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// Ref is one reference found in a source file.
type Ref struct {
	URL        string
	SourceFile string
	Line       int
	IsInternal bool
}

// ExtractDir walks root and extracts references from every Markdown and
// HTML file under it.
func ExtractDir(root string) ([]Ref, error) {
	var refs []Ref
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		var (
			found []Ref
			ferr  error
		)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md":
			found, ferr = extractMarkdownFile(path)
		case ".html":
			found, ferr = extractHTMLFile(path)
		default:
			return nil
		}
		if ferr != nil {
			return ferr
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		for i := range found {
			found[i].SourceFile = rel
		}
		refs = append(refs, found...)
		return nil
	})
	return refs, err
}

func extractMarkdownFile(path string) ([]Ref, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return ExtractMarkdown(data), nil
}

// ExtractMarkdown parses a Markdown body and extracts link destinations
// with their line numbers.
func ExtractMarkdown(body []byte) []Ref {
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(body))

	var refs []Ref
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		var dest string
		switch node := n.(type) {
		case *gmast.AutoLink:
			dest = string(node.URL(body))
		case *gmast.Link:
			dest = string(node.Destination)
		case *gmast.Image:
			dest = string(node.Destination)
		default:
			return gmast.WalkContinue, nil
		}
		if dest == "" {
			return gmast.WalkContinue, nil
		}
		refs = append(refs, Ref{
			URL:        dest,
			Line:       lineOf(body, n),
			IsInternal: isInternal(dest),
		})
		return gmast.WalkContinue, nil
	})
	return refs
}

// lineOf approximates a node's line from the byte offset of its first text
// segment, 1-based.
func lineOf(body []byte, n gmast.Node) int {
	for c := n; c != nil; c = c.Parent() {
		if c.Type() == gmast.TypeBlock {
			lines := c.Lines()
			if lines != nil && lines.Len() > 0 {
				off := lines.At(0).Start
				line := 1
				for _, b := range body[:off] {
					if b == '\n' {
						line++
					}
				}
				return line
			}
		}
	}
	return 0
}

func extractHTMLFile(path string) ([]Ref, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return ExtractHTML(data), nil
}

// ExtractHTML extracts href/src references from an HTML document. Line
// numbers are approximated by element order, the way a streaming parse
// counts them.
func ExtractHTML(data []byte) []Ref {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil
	}

	var refs []Ref
	elemCount := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			elemCount++
			if dest := linkAttr(n); dest != "" {
				refs = append(refs, Ref{URL: dest, Line: elemCount, IsInternal: isInternal(dest)})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs
}

func linkAttr(n *html.Node) string {
	var key string
	switch n.Data {
	case "a", "link":
		key = "href"
	case "img", "script", "source", "video", "audio":
		key = "src"
	default:
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// isInternal reports whether a destination points inside the site.
func isInternal(dest string) bool {
	if strings.HasPrefix(dest, "#") {
		return true
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// shouldSkip reports references that are never probed: anchors and
// non-HTTP schemes.
func shouldSkip(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return true
	}
	for _, p := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(dest, p) {
			return true
		}
	}
	return false
}
