package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPhase      = "phase"
	KeyDocname    = "docname"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyPlugin     = "plugin"
	KeyDirective  = "directive"
	KeyRole       = "role"
	KeyArchive    = "archive"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Phase(name string) slog.Attr       { return slog.String(KeyPhase, name) }
func Docname(name string) slog.Attr     { return slog.String(KeyDocname, name) }
func Page(name string) slog.Attr        { return slog.String(KeyPage, name) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Plugin(name string) slog.Attr      { return slog.String(KeyPlugin, name) }
func Directive(name string) slog.Attr   { return slog.String(KeyDirective, name) }
func Role(name string) slog.Attr        { return slog.String(KeyRole, name) }
func Archive(name string) slog.Attr     { return slog.String(KeyArchive, name) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
