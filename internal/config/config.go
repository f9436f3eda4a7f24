// Package config loads and validates the refsite site configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	rserrors "git.home.luguber.info/inful/refsite/internal/errors"
)

// Config is the full site configuration. Every field has a usable default;
// a minimal configuration only names the module to document.
type Config struct {
	Module    ModuleConfig    `yaml:"module"`
	Site      SiteConfig      `yaml:"site"`
	Theme     ThemeConfig     `yaml:"theme,omitempty"`
	Reference []GroupConfig   `yaml:"reference,omitempty"`
	Sections  []SectionConfig `yaml:"sections,omitempty"`
	News      NewsConfig      `yaml:"news,omitempty"`
	Output    OutputConfig    `yaml:"output"`
	LinkCheck LinkCheckConfig `yaml:"link_check,omitempty"`
}

// ModuleConfig names the module being documented.
type ModuleConfig struct {
	Path string `yaml:"path"`           // Directory of the package to document
	Name string `yaml:"name,omitempty"` // Display name, defaults to the package name
}

// SiteConfig is author-supplied site metadata.
type SiteConfig struct {
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Repo        string `yaml:"repo,omitempty"` // owner/name slug for issue and mention links
	FooterLeft  string `yaml:"footer_left,omitempty"`
	FooterRight string `yaml:"footer_right,omitempty"`
}

// ThemeConfig customizes styling. When Colors or Fonts are set, the build
// also emits a variables stylesheet.
type ThemeConfig struct {
	Colors map[string]string `yaml:"colors,omitempty"`
	Fonts  map[string]string `yaml:"fonts,omitempty"`
}

// Customized reports whether the theme needs a variables stylesheet.
func (t ThemeConfig) Customized() bool {
	return len(t.Colors) > 0 || len(t.Fonts) > 0
}

// GroupConfig declares one reference group. Contents entries are literal
// symbol names or selector calls (starts_with, ends_with, matches).
type GroupConfig struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Contents    []string `yaml:"contents"`
}

// SectionConfig declares one navigation section.
type SectionConfig struct {
	Title             string `yaml:"title"`
	Directory         string `yaml:"directory"`
	Order             int    `yaml:"order,omitempty"`
	Dropdown          bool   `yaml:"dropdown,omitempty"`
	DropdownItemLimit int    `yaml:"dropdown_item_limit,omitempty"`
}

// NewsConfig locates the changelog.
type NewsConfig struct {
	Path string `yaml:"path,omitempty"` // Defaults to NEWS.md next to the module
}

// OutputConfig controls where and how files are written.
type OutputConfig struct {
	Directory string `yaml:"directory,omitempty"`
	Force     bool   `yaml:"force,omitempty"` // Overwrite create-if-absent files
}

// LinkCheckConfig tunes the link checker.
type LinkCheckConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
	MaxConcurrent  int    `yaml:"max_concurrent,omitempty"`
	CachePath      string `yaml:"cache_path,omitempty"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours,omitempty"`
	SkipExternal   bool   `yaml:"skip_external,omitempty"`
}

// Load reads configuration from the specified file, expanding environment
// variables in the raw YAML first. A `.env` file next to the process is
// honored when present.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rserrors.Config("configuration file not found: " + configPath)
		}
		return nil, rserrors.WrapFS(err, "failed to read config file")
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, rserrors.Wrap(err, rserrors.CategoryConfig, rserrors.SeverityFatal, "failed to parse config file")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = c.Module.Name
	}
	if c.News.Path == "" {
		c.News.Path = "NEWS.md"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./site"
	}
	if c.LinkCheck.TimeoutSeconds <= 0 {
		c.LinkCheck.TimeoutSeconds = 10
	}
	if c.LinkCheck.MaxConcurrent <= 0 {
		c.LinkCheck.MaxConcurrent = 8
	}
	if c.LinkCheck.CacheTTLHours <= 0 {
		c.LinkCheck.CacheTTLHours = 24
	}
	for i := range c.Sections {
		if c.Sections[i].DropdownItemLimit <= 0 {
			c.Sections[i].DropdownItemLimit = 8
		}
	}
}

// Init writes a starter configuration file. An existing file is refused
// unless force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return rserrors.Config("configuration file already exists: " + configPath + " (use --force to overwrite)")
	}

	exampleConfig := Config{
		Module: ModuleConfig{Path: ".", Name: "mymodule"},
		Site: SiteConfig{
			Title:       "My Module",
			Description: "Reference documentation for mymodule",
			BaseURL:     "https://example.com",
		},
		Reference: []GroupConfig{
			{Title: "Core", Contents: []string{"starts_with(\"New\")"}},
		},
		Sections: []SectionConfig{
			{Title: "Articles", Directory: "articles", Order: 1, Dropdown: true},
		},
		Output: OutputConfig{Directory: "./site"},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return rserrors.Wrap(err, rserrors.CategoryConfig, rserrors.SeverityFatal, "failed to marshal starter config")
	}
	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return rserrors.WrapFS(err, "failed to write config file")
	}
	return nil
}

// Validate reports structural misconfiguration. Anything it returns is
// fatal and happens before the first file write.
func (c *Config) Validate() error {
	if c.Module.Path == "" {
		return rserrors.Config("no module specified: module.path is required")
	}
	for i, g := range c.Reference {
		if g.Title == "" {
			return rserrors.Config(fmt.Sprintf("reference group %d has no title", i))
		}
	}
	for i, s := range c.Sections {
		if s.Directory == "" {
			return rserrors.Config(fmt.Sprintf("section %d (%s) has no directory", i, s.Title))
		}
	}
	return nil
}
