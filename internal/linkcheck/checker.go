package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/refsite/internal/config"
	"git.home.luguber.info/inful/refsite/internal/logfields"
)

// verdict is one probe outcome, shared by every source location that
// references the same URL.
type verdict struct {
	status  Status
	message string
}

// Checker probes references extracted from generated output.
type Checker struct {
	cfg      *config.LinkCheckConfig
	client   *http.Client
	cache    *Cache
	siteRoot string // Root for resolving internal paths
}

// NewChecker creates a checker. cache may be nil to probe everything fresh.
func NewChecker(cfg *config.LinkCheckConfig, siteRoot string, cache *Cache) *Checker {
	return &Checker{
		cfg:      cfg,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		cache:    cache,
		siteRoot: siteRoot,
	}
}

// Check probes every unique URL once with a bounded worker pool and fans
// verdicts back out to every source location. No ordering is guaranteed
// among probes; results for the same URL always share one verdict.
func (c *Checker) Check(ctx context.Context, refs []Ref) *Report {
	report := &Report{RunID: uuid.NewString()}

	unique := make(map[string][]int) // URL -> indexes into refs
	for i, ref := range refs {
		unique[ref.URL] = append(unique[ref.URL], i)
	}
	slog.Info("Checking links", logfields.Count(len(unique)))

	verdicts := make(map[string]verdict, len(unique))
	var mu sync.Mutex

	sem := make(chan struct{}, c.cfg.MaxConcurrent)
	var wg sync.WaitGroup
	for url, idxs := range unique {
		wg.Add(1)
		sem <- struct{}{}
		go func(url string, sample Ref) {
			defer wg.Done()
			defer func() { <-sem }()
			v := c.probe(ctx, url, sample)
			if v.status != StatusOK {
				slog.Debug("Probe verdict", logfields.URL(url), logfields.Status(string(v.status)))
			}
			mu.Lock()
			verdicts[url] = v
			mu.Unlock()
		}(url, refs[idxs[0]])
	}
	wg.Wait()

	for _, ref := range refs {
		v := verdicts[ref.URL]
		report.Results = append(report.Results, Result{
			URL:        ref.URL,
			Status:     v.status,
			Message:    v.message,
			SourceFile: ref.SourceFile,
			Line:       ref.Line,
		})
	}
	return report
}

func (c *Checker) probe(ctx context.Context, url string, sample Ref) verdict {
	switch {
	case shouldSkip(url):
		return verdict{StatusSkipped, "not checked"}
	case sample.IsInternal:
		return c.probeInternal(url, sample)
	case c.cfg.SkipExternal:
		return verdict{StatusSkipped, "external checks disabled"}
	default:
		return c.probeExternal(ctx, url)
	}
}

// probeInternal resolves a site-relative path against the rendered tree.
// Before rendering only the content tree exists, so root-relative URLs are
// also tried under content/, where the pretty URL /reference/widget/
// corresponds to content/reference/widget.md.
func (c *Checker) probeInternal(url string, sample Ref) verdict {
	path := url
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	var bases []string
	if strings.HasPrefix(path, "/") {
		rel := filepath.FromSlash(path)
		bases = []string{
			filepath.Join(c.siteRoot, rel),
			filepath.Join(c.siteRoot, "content", rel),
		}
	} else {
		bases = []string{filepath.Join(c.siteRoot, filepath.Dir(sample.SourceFile), filepath.FromSlash(path))}
	}

	for _, base := range bases {
		for _, candidate := range []string{base, filepath.Join(base, "index.html"), base + ".html", base + ".md"} {
			if _, err := os.Stat(candidate); err == nil {
				return verdict{StatusOK, ""}
			}
		}
	}
	return verdict{StatusBroken, "path not found in site output"}
}

func (c *Checker) probeExternal(ctx context.Context, url string) verdict {
	if c.cache != nil {
		if status, message, ok := c.cache.Get(ctx, url); ok {
			return verdict{status, message}
		}
	}

	v := c.request(ctx, url)
	if c.cache != nil {
		if err := c.cache.Put(ctx, url, v.status, v.message); err != nil {
			slog.Warn("Failed to record probe verdict", logfields.URL(url), logfields.Error(err))
		}
	}
	return v
}

// request does one HEAD probe, falling back to GET for servers that reject
// HEAD. One timeout per probe, no retry.
func (c *Checker) request(ctx context.Context, url string) verdict {
	status, err := c.do(ctx, http.MethodHead, url)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusForbidden) {
		status, err = c.do(ctx, http.MethodGet, url)
	}
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		return verdict{StatusTimeout, "probe timed out"}
	case err != nil && isTimeout(err):
		return verdict{StatusTimeout, "probe timed out"}
	case err != nil:
		return verdict{StatusError, err.Error()}
	case status >= 400:
		return verdict{StatusBroken, fmt.Sprintf("HTTP %d", status)}
	default:
		return verdict{StatusOK, ""}
	}
}

func (c *Checker) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()
	return resp.StatusCode, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
