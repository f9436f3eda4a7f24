// Package workflows emits CI workflow definitions for building and
// deploying the generated site. Pure string templating.
package workflows

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"
)

// Params parameterizes the emitted workflows.
type Params struct {
	Repo         string // owner/name slug, informational only
	Branch       string // Branch that triggers deployment
	HugoVersion  string
	OutputDir    string
	KeepVersions int // Retained deployed doc versions during cleanup
}

func (p *Params) applyDefaults() {
	if p.Branch == "" {
		p.Branch = "main"
	}
	if p.HugoVersion == "" {
		p.HugoVersion = "0.139.0"
	}
	if p.OutputDir == "" {
		p.OutputDir = "./site"
	}
	if p.KeepVersions <= 0 {
		p.KeepVersions = 5
	}
}

// Render produces the workflow files keyed by their relative output path.
func Render(params Params) (map[string]string, error) {
	params.applyDefaults()

	out := make(map[string]string, len(workflowTemplates))
	for name, tpl := range workflowTemplates {
		t, err := template.New(name).Parse(tpl)
		if err != nil {
			return nil, fmt.Errorf("parse workflow template %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := t.Execute(&buf, params); err != nil {
			return nil, fmt.Errorf("render workflow template %s: %w", name, err)
		}
		out[filepath.Join(".github", "workflows", name)] = buf.String()
	}
	return out, nil
}

var workflowTemplates = map[string]string{
	"docs.yaml": `name: docs

on:
  push:
    branches: [{{ .Branch }}]
  workflow_dispatch:

jobs:
  build-deploy:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
        with:
          fetch-depth: 0
      - uses: peaceiris/actions-hugo@v3
        with:
          hugo-version: "{{ .HugoVersion }}"
      - name: Build site
        run: hugo --minify --source {{ .OutputDir }}
      - name: Deploy
        uses: peaceiris/actions-gh-pages@v4
        with:
          github_token: ${{ "{{" }} secrets.GITHUB_TOKEN {{ "}}" }}
          publish_dir: {{ .OutputDir }}/public
`,

	"docs-cleanup.yaml": `name: docs-cleanup

on:
  schedule:
    - cron: "0 3 * * 0"
  workflow_dispatch:

jobs:
  prune-versions:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
        with:
          ref: gh-pages
      - name: Prune old doc versions
        run: |
          keep={{ .KeepVersions }}
          ls -d v*/ 2>/dev/null | sort -V | head -n -"$keep" | xargs -r rm -rf
          git config user.name "docs-bot"
          git config user.email "docs-bot@users.noreply.github.com"
          git add -A
          git diff --cached --quiet || git commit -m "Prune old documentation versions"
          git push
`,
}
