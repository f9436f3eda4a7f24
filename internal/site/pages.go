package site

import (
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/refsite/internal/autolink"
	"git.home.luguber.info/inful/refsite/internal/docmodel"
	rserrors "git.home.luguber.info/inful/refsite/internal/errors"
	"git.home.luguber.info/inful/refsite/internal/frontmatter"
	"git.home.luguber.info/inful/refsite/internal/logfields"
	"git.home.luguber.info/inful/refsite/internal/news"
	"git.home.luguber.info/inful/refsite/internal/symbols"
)

// writePage composes front matter and body and writes the page when changed.
func (g *Generator) writePage(rel string, fields map[string]any, body string) error {
	data, err := frontmatter.Compose(fields, body)
	if err != nil {
		return rserrors.Wrap(err, rserrors.CategoryRender, rserrors.SeverityError, "failed to compose page").WithContext("path", rel)
	}
	return g.writeFileIfChanged(rel, data)
}

// writeReferencePages emits one page per documented symbol plus the grouped
// reference index.
func (g *Generator) writeReferencePages(module *symbols.Module, index symbols.Index, groups []symbols.GroupResult) error {
	link := g.linker(index)

	for _, sym := range module.Symbols {
		for _, ref := range autolink.FindUndefinedRefs(sym.Doc, index, g.registry) {
			slog.Debug("Unresolved cross-reference", logfields.Symbol(sym.Name), "ref", ref.Name)
		}
		body := symbolPageBody(&sym, link)
		rel := filepath.Join("content", "reference", symbols.Slug(sym.Name)+".md")
		if err := g.writePage(rel, map[string]any{"title": sym.Name, "kind": string(sym.Kind)}, body); err != nil {
			return err
		}
	}

	return g.writePage(filepath.Join("content", "reference", "_index.md"),
		map[string]any{"title": "Reference"},
		referenceIndexBody(module, index, groups, link))
}

func symbolPageBody(sym *symbols.Symbol, link func(string) string) string {
	var b strings.Builder
	if sym.Signature != "" {
		b.WriteString("```go\n" + sym.Signature + "\n```\n\n")
	}
	if sym.Doc != "" {
		b.WriteString(docmodel.FormatAll(docmodel.ParseBlocks(sym.Doc), link))
	}
	return b.String()
}

// referenceIndexBody renders one table per reference group. Cell text is
// pipe-escaped so item text cannot break table columns.
func referenceIndexBody(module *symbols.Module, index symbols.Index, groups []symbols.GroupResult, link func(string) string) string {
	var b strings.Builder
	for _, grp := range groups {
		b.WriteString("## " + grp.Title + "\n\n")
		if grp.Description != "" {
			b.WriteString(link(grp.Description) + "\n\n")
		}
		b.WriteString("| Symbol | Description |\n|---|---|\n")
		for _, name := range grp.Symbols {
			summary := ""
			if sym := module.Symbol(name); sym != nil {
				summary = docSummary(sym.Doc)
			}
			b.WriteString("| [`" + name + "`](" + index[name] + ") | " + news.EscapePipes(summary) + " |\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// docSummary returns the first sentence of a doc comment, single line.
func docSummary(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}
	if i := strings.Index(doc, "\n\n"); i >= 0 {
		doc = doc[:i]
	}
	doc = strings.Join(strings.Fields(doc), " ")
	if i := strings.Index(doc, ". "); i >= 0 {
		doc = doc[:i+1]
	}
	return doc
}
