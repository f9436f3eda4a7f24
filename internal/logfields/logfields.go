package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyModule     = "module"
	KeySymbol     = "symbol"
	KeySection    = "section"
	KeyGroup      = "group"
	KeyVersion    = "version"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyStatus     = "status"
	KeyCount      = "count"
	KeyBuildID    = "build_id"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Module(name string) slog.Attr    { return slog.String(KeyModule, name) }
func Symbol(name string) slog.Attr    { return slog.String(KeySymbol, name) }
func Section(name string) slog.Attr   { return slog.String(KeySection, name) }
func Group(title string) slog.Attr    { return slog.String(KeyGroup, title) }
func Version(label string) slog.Attr  { return slog.String(KeyVersion, label) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
