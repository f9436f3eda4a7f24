package site

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	rserrors "git.home.luguber.info/inful/refsite/internal/errors"
	"git.home.luguber.info/inful/refsite/internal/frontmatter"
	"git.home.luguber.info/inful/refsite/internal/logfields"
	"git.home.luguber.info/inful/refsite/internal/symbols"
)

// collectSections discovers authored article files for each configured
// section. A section whose source directory does not exist is nothing to
// do: it stays in navigation with zero pages rather than failing the build.
func (g *Generator) collectSections(index symbols.Index) ([]Section, error) {
	link := g.linker(index)

	sections := make([]Section, 0, len(g.cfg.Sections))
	for _, sc := range g.cfg.Sections {
		dir := filepath.Join(g.srcRoot, sc.Directory)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				sections = append(sections, Section{Config: sc})
				continue
			}
			return nil, rserrors.WrapFS(err, "failed to read section directory").WithContext("dir", dir)
		}

		sec := Section{Config: sc}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, "_") {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return nil, rserrors.WrapFS(err, "failed to read article").WithContext("path", name)
			}
			fm, rest, _, err := frontmatter.Split(raw)
			if err != nil {
				return nil, rserrors.Wrap(err, rserrors.CategoryParse, rserrors.SeverityFatal,
					"malformed article front matter").WithContext("path", name)
			}
			fields, err := frontmatter.Parse(fm)
			if err != nil {
				return nil, rserrors.Wrap(err, rserrors.CategoryParse, rserrors.SeverityFatal,
					"malformed article front matter").WithContext("path", name)
			}
			body := string(rest)
			slug := strings.TrimSuffix(name, ".md")
			title, _ := fields["title"].(string)
			if title == "" {
				title = articleTitle(body, slug)
			}
			sec.Pages = append(sec.Pages, SectionPage{
				Title:  title,
				Slug:   symbols.Slug(slug),
				Body:   link(body),
				Fields: fields,
			})
		}
		sort.Slice(sec.Pages, func(i, j int) bool { return sec.Pages[i].Slug < sec.Pages[j].Slug })
		slog.Debug("Collected section", logfields.Section(sc.Title), logfields.Count(len(sec.Pages)))
		sections = append(sections, sec)
	}
	return sections, nil
}

// articleTitle takes the first top-level heading, falling back to the slug.
func articleTitle(body, slug string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return titleCase(strings.ReplaceAll(slug, "-", " "))
}

// writeSections emits article pages and one index page per section.
func (g *Generator) writeSections(sections []Section) error {
	for _, sec := range sections {
		dir := filepath.Join("content", sec.Config.Directory)
		for _, p := range sec.Pages {
			fields := make(map[string]any, len(p.Fields)+1)
			for k, v := range p.Fields {
				fields[k] = v
			}
			fields["title"] = p.Title
			if err := g.writePage(filepath.Join(dir, p.Slug+".md"), fields, p.Body); err != nil {
				return err
			}
		}

		var b strings.Builder
		for _, p := range sec.Pages {
			b.WriteString("- [" + p.Title + "](/" + sec.Config.Directory + "/" + p.Slug + "/)\n")
		}
		fields := map[string]any{"title": sec.Config.Title}
		if err := g.writePage(filepath.Join(dir, "_index.md"), fields, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// titleCase converts a string to title case (portable alternative to strings.Title)
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}
