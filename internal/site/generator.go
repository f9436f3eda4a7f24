// Package site assembles the documentation site: per-symbol reference
// pages, grouped indexes, the changelog page, section pages, navigation,
// styling assets, and the renderer's configuration manifest.
package site

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/refsite/internal/autolink"
	"git.home.luguber.info/inful/refsite/internal/config"
	rserrors "git.home.luguber.info/inful/refsite/internal/errors"
	"git.home.luguber.info/inful/refsite/internal/logfields"
	"git.home.luguber.info/inful/refsite/internal/symbols"
	"git.home.luguber.info/inful/refsite/internal/workflows"
)

// Generator builds the site output tree from one configuration.
type Generator struct {
	cfg      *config.Config
	srcRoot  string // Directory the configuration lives in; inputs are relative to it
	outDir   string
	registry *autolink.Registry

	report *Report
}

// Report summarizes one build.
type Report struct {
	BuildID   string
	Written   int
	Unchanged int
	Skipped   int
	Duration  time.Duration
}

// NewGenerator creates a generator. The registry is the caller's; pass a
// snapshot when builds run concurrently.
func NewGenerator(cfg *config.Config, srcRoot, outDir string, registry *autolink.Registry) *Generator {
	if registry == nil {
		registry = autolink.NewRegistry()
	}
	return &Generator{cfg: cfg, srcRoot: srcRoot, outDir: outDir, registry: registry}
}

// Build runs the full pipeline and reports what was written.
//
// Builds are idempotent: rerunning on unchanged inputs rewrites nothing,
// and an interrupted build is repaired by simply running again.
func (g *Generator) Build() (*Report, error) {
	start := time.Now()
	g.report = &Report{BuildID: uuid.NewString()}

	modPath := g.cfg.Module.Path
	if !filepath.IsAbs(modPath) {
		modPath = filepath.Join(g.srcRoot, modPath)
	}
	module, err := symbols.LoadModule(modPath)
	if err != nil {
		return nil, rserrors.Wrap(err, rserrors.CategoryParse, rserrors.SeverityFatal, "failed to load module documentation")
	}
	if g.cfg.Module.Name != "" {
		module.Name = g.cfg.Module.Name
	}
	if g.cfg.Site.Repo == "" {
		g.cfg.Site.Repo = config.DetectRepo(g.srcRoot)
	}

	index := symbols.BuildIndex(module)
	slog.Info("Building site", logfields.BuildID(g.report.BuildID),
		logfields.Module(module.Name), logfields.Count(len(module.Symbols)))

	groups, err := g.resolveGroups(module)
	if err != nil {
		return nil, err
	}
	sections, err := g.collectSections(index)
	if err != nil {
		return nil, err
	}
	newsPage, err := g.renderNewsPage()
	if err != nil {
		return nil, err
	}

	if err := g.writeManifest(module, sections, newsPage != ""); err != nil {
		return nil, err
	}
	if err := g.writeReferencePages(module, index, groups); err != nil {
		return nil, err
	}
	if err := g.writeSections(sections); err != nil {
		return nil, err
	}
	if newsPage != "" {
		if err := g.writePage(filepath.Join("content", "news", "_index.md"),
			map[string]any{"title": "Changelog"}, newsPage); err != nil {
			return nil, err
		}
	}
	if err := g.writeAssets(); err != nil {
		return nil, err
	}
	if err := g.writeWorkflows(); err != nil {
		return nil, err
	}

	g.report.Duration = time.Since(start)
	slog.Info("Build finished", logfields.BuildID(g.report.BuildID),
		logfields.Count(g.report.Written),
		logfields.DurationMS(float64(g.report.Duration.Milliseconds())))
	return g.report, nil
}

func (g *Generator) resolveGroups(module *symbols.Module) ([]symbols.GroupResult, error) {
	groups := make([]symbols.Group, 0, len(g.cfg.Reference))
	for _, gc := range g.cfg.Reference {
		grp := symbols.Group{Title: gc.Title, Description: gc.Description}
		for _, entry := range gc.Contents {
			sel, err := symbols.ParseSelector(entry)
			if err != nil {
				return nil, rserrors.Wrap(err, rserrors.CategoryConfig, rserrors.SeverityFatal,
					fmt.Sprintf("bad selector in group %q", gc.Title))
			}
			grp.Contents = append(grp.Contents, sel)
		}
		groups = append(groups, grp)
	}

	results, ungrouped := symbols.Partition(groups, module)
	if len(ungrouped) > 0 {
		results = append(results, symbols.GroupResult{Title: "Other", Symbols: ungrouped})
	}
	// Drop groups that matched nothing; an empty table says less than no table.
	kept := results[:0]
	for _, r := range results {
		if len(r.Symbols) > 0 {
			slog.Debug("Resolved reference group", logfields.Group(r.Title), logfields.Count(len(r.Symbols)))
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// linker is the text rewriter applied to every prose body before emission.
func (g *Generator) linker(index symbols.Index) func(string) string {
	return func(text string) string {
		return autolink.ResolveExternal(autolink.Rewrite(text, index), g.registry)
	}
}

func (g *Generator) writeWorkflows() error {
	params := workflows.Params{
		Repo:      g.cfg.Site.Repo,
		OutputDir: g.cfg.Output.Directory,
	}
	files, err := workflows.Render(params)
	if err != nil {
		return err
	}
	for path, content := range files {
		if err := g.ensureFile(path, []byte(content)); err != nil {
			return err
		}
	}
	return nil
}

// writeFileIfChanged writes data only when the file is missing or differs,
// keeping repeated builds byte-stable and cheap.
func (g *Generator) writeFileIfChanged(rel string, data []byte) error {
	path := filepath.Join(g.outDir, rel)
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		g.report.Unchanged++
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return rserrors.WrapFS(err, "failed to create output directory")
	}
	// #nosec G306 -- generated pages are public content
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return rserrors.WrapFS(err, "failed to write output file").WithContext("path", path)
	}
	g.report.Written++
	slog.Debug("Wrote file", logfields.Path(rel))
	return nil
}

// ensureFile creates a file only when absent. An existing file is a
// user-visible warning and a skip, unless the overwrite flag is set.
func (g *Generator) ensureFile(rel string, data []byte) error {
	path := filepath.Join(g.outDir, rel)
	if _, err := os.Stat(path); err == nil {
		if !g.cfg.Output.Force {
			slog.Warn("File exists, skipping (use force to overwrite)", logfields.Path(rel))
			g.report.Skipped++
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return rserrors.WrapFS(err, "failed to create output directory")
	}
	// #nosec G306 -- generated workflows and starter files are not secret
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return rserrors.WrapFS(err, "failed to write file").WithContext("path", path)
	}
	g.report.Written++
	return nil
}
