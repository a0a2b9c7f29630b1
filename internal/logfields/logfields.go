package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySource     = "source"
	KeyBlock      = "block"
	KeyIndex      = "index"
	KeyLevel      = "level"
	KeySection    = "section"
	KeyCount      = "count"
	KeyRule       = "rule"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr        { return slog.String(KeySource, p) }
func Block(title string) slog.Attr     { return slog.String(KeyBlock, title) }
func Index(i int) slog.Attr            { return slog.Int(KeyIndex, i) }
func Level(l int) slog.Attr            { return slog.Int(KeyLevel, l) }
func Section(s string) slog.Attr       { return slog.String(KeySection, s) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Rule(name string) slog.Attr       { return slog.String(KeyRule, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
