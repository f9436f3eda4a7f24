package site

import (
	"path/filepath"
	"sort"
	"strings"
)

// writeAssets emits the stylesheet, plus a variables file when the theme
// carries custom colors or fonts.
func (g *Generator) writeAssets() error {
	if err := g.writeFileIfChanged(filepath.Join("static", "css", "site.css"), []byte(baseStylesheet)); err != nil {
		return err
	}
	if !g.cfg.Theme.Customized() {
		return nil
	}
	return g.writeFileIfChanged(filepath.Join("static", "css", "variables.css"), []byte(variablesStylesheet(g)))
}

// variablesStylesheet renders theme overrides as CSS custom properties,
// sorted by name for stable output.
func variablesStylesheet(g *Generator) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	writeVars(&b, "color", g.cfg.Theme.Colors)
	writeVars(&b, "font", g.cfg.Theme.Fonts)
	b.WriteString("}\n")
	return b.String()
}

func writeVars(b *strings.Builder, prefix string, vars map[string]string) {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  --" + prefix + "-" + k + ": " + vars[k] + ";\n")
	}
}

const baseStylesheet = `/* refsite base stylesheet */

body {
  font-family: var(--font-body, system-ui, sans-serif);
  color: var(--color-text, #1f2328);
  line-height: 1.6;
}

code, pre {
  font-family: var(--font-mono, ui-monospace, monospace);
}

pre {
  background: var(--color-code-bg, #f6f8fa);
  padding: 1em;
  overflow-x: auto;
  border-radius: 6px;
}

table {
  border-collapse: collapse;
  width: 100%;
}

th, td {
  border: 1px solid var(--color-border, #d1d9e0);
  padding: 0.4em 0.8em;
  text-align: left;
}

details > summary {
  cursor: pointer;
  font-weight: 600;
  margin: 0.8em 0;
}

a {
  color: var(--color-link, #0969da);
}
`
