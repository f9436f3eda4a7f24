package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/refsite/internal/autolink"
	"git.home.luguber.info/inful/refsite/internal/config"
	"git.home.luguber.info/inful/refsite/internal/linkcheck"
	"git.home.luguber.info/inful/refsite/internal/news"
	"git.home.luguber.info/inful/refsite/internal/preview"
	"git.home.luguber.info/inful/refsite/internal/site"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"refsite.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Output directory for the generated site"`
		Force  bool   `help:"Overwrite create-if-absent files such as workflows"`
	} `cmd:"" help:"Build the documentation site from the configured module"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	News struct{} `cmd:"" help:"Render the changelog page to stdout"`

	Check struct {
		Site         string `help:"Site directory to check (defaults to the configured output directory)"`
		SkipExternal bool   `help:"Only check internal references"`
		NoCache      bool   `help:"Probe every URL even when a cached verdict exists"`
	} `cmd:"" help:"Check links in the generated site"`

	Preview struct {
		Port   int    `short:"p" help:"Port to serve on" default:"8080"`
		Output string `short:"o" help:"Output directory for the generated site"`
	} `cmd:"" help:"Serve the site locally and rebuild on change"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "build":
		cfg, srcRoot := mustLoadConfig()
		if CLI.Build.Output != "" {
			cfg.Output.Directory = CLI.Build.Output
		}
		if CLI.Build.Force {
			cfg.Output.Force = true
		}
		if err := runBuild(cfg, srcRoot); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration written", "path", CLI.Config)
	case "news":
		cfg, srcRoot := mustLoadConfig()
		if err := runNews(cfg, srcRoot); err != nil {
			slog.Error("News rendering failed", "error", err)
			os.Exit(1)
		}
	case "check":
		cfg, srcRoot := mustLoadConfig()
		if CLI.Check.SkipExternal {
			cfg.LinkCheck.SkipExternal = true
		}
		siteDir := CLI.Check.Site
		if siteDir == "" {
			siteDir = filepath.Join(srcRoot, cfg.Output.Directory)
		}
		passed, err := runCheck(cfg, siteDir)
		if err != nil {
			slog.Error("Link check failed", "error", err)
			os.Exit(1)
		}
		if !passed {
			os.Exit(1)
		}
	case "preview":
		cfg, srcRoot := mustLoadConfig()
		if CLI.Preview.Output != "" {
			cfg.Output.Directory = CLI.Preview.Output
		}
		if err := runPreview(cfg, srcRoot, CLI.Preview.Port); err != nil {
			slog.Error("Preview failed", "error", err)
			os.Exit(1)
		}
	}
}

func mustLoadConfig() (*config.Config, string) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg, filepath.Dir(CLI.Config)
}

func runBuild(cfg *config.Config, srcRoot string) error {
	outDir := cfg.Output.Directory
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(srcRoot, outDir)
	}
	gen := site.NewGenerator(cfg, srcRoot, outDir, autolink.StandardRegistry())
	report, err := gen.Build()
	if err != nil {
		return err
	}
	slog.Info("Site built",
		"build_id", report.BuildID,
		"written", report.Written,
		"unchanged", report.Unchanged,
		"skipped", report.Skipped,
		"duration", report.Duration)
	return nil
}

func runNews(cfg *config.Config, srcRoot string) error {
	path := cfg.News.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(srcRoot, path)
	}
	versions, err := news.ParseFile(path)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		slog.Warn("No changelog entries found", "path", path)
		return nil
	}
	fmt.Print(news.Render(versions, cfg.Site.Repo))
	return nil
}

func runCheck(cfg *config.Config, siteDir string) (bool, error) {
	refs, err := linkcheck.ExtractDir(siteDir)
	if err != nil {
		return false, err
	}

	var cache *linkcheck.Cache
	if cfg.LinkCheck.CachePath != "" && !CLI.Check.NoCache {
		ttl := time.Duration(cfg.LinkCheck.CacheTTLHours) * time.Hour
		cache, err = linkcheck.OpenCache(cfg.LinkCheck.CachePath, ttl)
		if err != nil {
			slog.Warn("Probe cache unavailable, checking without it", "error", err)
		} else {
			defer func() { _ = cache.Close() }()
		}
	}

	checker := linkcheck.NewChecker(&cfg.LinkCheck, siteDir, cache)
	report := checker.Check(context.Background(), refs)
	fmt.Print(report.Summary())
	return report.Passed(), nil
}

func runPreview(cfg *config.Config, srcRoot string, port int) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	outDir := cfg.Output.Directory
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(srcRoot, outDir)
	}
	server := preview.NewServer(cfg, srcRoot, outDir, port, autolink.StandardRegistry())
	return server.Run(ctx)
}
