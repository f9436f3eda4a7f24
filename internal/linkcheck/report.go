package linkcheck

import (
	"fmt"
	"sort"
	"strings"
)

// Status classifies one probe outcome. The set is closed: probe failures
// are recorded under one of these, never raised to the caller.
type Status string

const (
	StatusOK      Status = "ok"
	StatusBroken  Status = "broken"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Result is one checked reference at one source location.
type Result struct {
	URL        string
	Status     Status
	Message    string
	SourceFile string
	Line       int
}

// Report aggregates all results for one check run.
type Report struct {
	RunID   string
	Results []Result
}

// Counts returns result counts per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return counts
}

// Failures lists broken and erroring results, ordered by source location.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusBroken || res.Status == StatusError || res.Status == StatusTimeout {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceFile != out[j].SourceFile {
			return out[i].SourceFile < out[j].SourceFile
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// Passed reports whether no reference failed.
func (r *Report) Passed() bool {
	return len(r.Failures()) == 0
}

// Summary renders the counts table and failure detail listing.
func (r *Report) Summary() string {
	var b strings.Builder
	counts := r.Counts()
	b.WriteString("| Status | Count |\n|---|---|\n")
	for _, s := range []Status{StatusOK, StatusBroken, StatusTimeout, StatusError, StatusSkipped} {
		fmt.Fprintf(&b, "| %s | %d |\n", s, counts[s])
	}
	fmt.Fprintf(&b, "\nTotal: %d\n", len(r.Results))

	if failures := r.Failures(); len(failures) > 0 {
		b.WriteString("\nFailures:\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "  %s:%d %s (%s: %s)\n", f.SourceFile, f.Line, f.URL, f.Status, f.Message)
		}
	}
	return b.String()
}
