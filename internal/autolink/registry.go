// Package autolink rewrites inline code-spans in documentation bodies into
// hyperlinks against a symbol index and an external-package registry.
package autolink

import (
	"sort"
	"strings"
)

// Registry maps external package names to their documentation base URLs.
//
// A Registry is an explicit value threaded through calls, never a shared
// singleton. Builds running concurrently must each use their own snapshot,
// or complete all registration before the first read; the type does no
// internal locking.
type Registry struct {
	pkgs map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{pkgs: make(map[string]string)}
}

// StandardRegistry returns a fresh registry pre-populated with commonly
// linked package documentation roots. Callers own the returned value and may
// mutate it freely.
func StandardRegistry() *Registry {
	r := NewRegistry()
	for name, base := range standardPackages {
		r.Register(name, base)
	}
	return r
}

var standardPackages = map[string]string{
	"fmt":      "https://pkg.go.dev/fmt",
	"strings":  "https://pkg.go.dev/strings",
	"net/http": "https://pkg.go.dev/net/http",
	"context":  "https://pkg.go.dev/context",
	"testing":  "https://pkg.go.dev/testing",
}

// Register maps a package name to its documentation base URL.
// Registering an existing name overwrites the previous URL.
func (r *Registry) Register(name, baseURL string) {
	r.pkgs[name] = strings.TrimRight(baseURL, "/")
}

// BaseURL returns the registered base URL for a package name.
func (r *Registry) BaseURL(name string) (string, bool) {
	u, ok := r.pkgs[name]
	return u, ok
}

// Clear removes all registrations. Tests needing isolation call this rather
// than relying on process teardown.
func (r *Registry) Clear() {
	r.pkgs = make(map[string]string)
}

// Snapshot returns an independent copy for use by a concurrent build.
func (r *Registry) Snapshot() *Registry {
	c := NewRegistry()
	for k, v := range r.pkgs {
		c.pkgs[k] = v
	}
	return c
}

// Names returns the registered package names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.pkgs))
	for k := range r.pkgs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
