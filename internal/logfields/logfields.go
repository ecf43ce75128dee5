package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocument   = "document"
	KeyKind       = "kind"
	KeyNumber     = "number"
	KeyReason     = "reason"
	KeyRunID      = "run_id"
	KeyProcessor  = "processor"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
	KeyCount      = "count"
	KeyAddr       = "addr"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Document(name string) slog.Attr { return slog.String(KeyDocument, name) }
func Kind(k string) slog.Attr { return slog.String(KeyKind, k) }
func Number(n int) slog.Attr { return slog.Int(KeyNumber, n) }
func Reason(r string) slog.Attr { return slog.String(KeyReason, r) }
func RunID(id string) slog.Attr { return slog.String(KeyRunID, id) }
func Processor(name string) slog.Attr { return slog.String(KeyProcessor, name) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }
func Addr(a string) slog.Attr { return slog.String(KeyAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
