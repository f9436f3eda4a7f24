package site

import (
	"sort"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/refsite/internal/config"
	rserrors "git.home.luguber.info/inful/refsite/internal/errors"
	"git.home.luguber.info/inful/refsite/internal/symbols"
)

// MenuEntry is one computed navigation entry in the manifest.
type MenuEntry struct {
	Name     string      `yaml:"name"`
	URL      string      `yaml:"url"`
	Weight   int         `yaml:"weight"`
	Children []MenuEntry `yaml:"children,omitempty"`
}

// Section is one resolved navigation section with its discovered pages.
type Section struct {
	Config config.SectionConfig
	Pages  []SectionPage
}

// SectionPage is one authored article resolved for emission. Fields carries
// the article's own front matter, merged into the emitted page.
type SectionPage struct {
	Title  string
	Slug   string
	Body   string
	Fields map[string]any
}

// buildMenu computes the navigation menu from resolved sections.
//
// Sections sort by their configured order, ties broken by title. A dropdown
// section with more pages than its item limit degrades to a single link to
// the section index page.
func buildMenu(sections []Section, hasNews bool) []MenuEntry {
	sorted := make([]Section, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Config, sorted[j].Config
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Title < b.Title
	})

	menu := []MenuEntry{{Name: "Reference", URL: "/reference/", Weight: 1}}
	weight := 2
	for _, s := range sorted {
		entry := MenuEntry{
			Name:   s.Config.Title,
			URL:    "/" + s.Config.Directory + "/",
			Weight: weight,
		}
		if s.Config.Dropdown && len(s.Pages) <= s.Config.DropdownItemLimit {
			for _, p := range s.Pages {
				entry.Children = append(entry.Children, MenuEntry{
					Name: p.Title,
					URL:  "/" + s.Config.Directory + "/" + p.Slug + "/",
				})
			}
		}
		menu = append(menu, entry)
		weight++
	}
	if hasNews {
		menu = append(menu, MenuEntry{Name: "Changelog", URL: "/news/", Weight: weight})
	}
	return menu
}

// writeManifest emits the site-configuration document the external renderer
// consumes. Field order is fixed by explicit key sorting in the yaml
// encoder, so unchanged configuration produces byte-identical output.
func (g *Generator) writeManifest(module *symbols.Module, sections []Section, hasNews bool) error {
	title := g.cfg.Site.Title
	if title == "" {
		title = module.Name
	}

	params := map[string]any{
		"footer_left":  g.cfg.Site.FooterLeft,
		"footer_right": g.cfg.Site.FooterRight,
		"repo":         g.cfg.Site.Repo,
	}
	root := map[string]any{
		"title":        title,
		"description":  g.cfg.Site.Description,
		"baseURL":      g.cfg.Site.BaseURL,
		"languageCode": "en",
		"markup": map[string]any{
			// Raw HTML stays enabled: the changelog page uses <details> containers.
			"goldmark": map[string]any{"renderer": map[string]any{"unsafe": true}},
			"highlight": map[string]any{
				"style":     "github",
				"noClasses": false,
			},
		},
		"params": params,
		"menu":   map[string]any{"main": buildMenu(sections, hasNews)},
	}

	// yaml.v3 marshals map keys in sorted order, which keeps the manifest
	// byte-stable across builds.
	data, err := yaml.Marshal(root)
	if err != nil {
		return rserrors.Wrap(err, rserrors.CategoryRender, rserrors.SeverityFatal, "failed to marshal site manifest")
	}
	return g.writeFileIfChanged("hugo.yaml", data)
}
