package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyNodeKind   = "node_kind"
	KeyWidth      = "width"
	KeyLineCount  = "line_count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func NodeKind(kind string) slog.Attr  { return slog.String(KeyNodeKind, kind) }
func Width(w int) slog.Attr           { return slog.Int(KeyWidth, w) }
func LineCount(n int) slog.Attr       { return slog.Int(KeyLineCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
