package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyOperationID = "operation_id"
	KeyPlatform    = "platform"
	KeyVersion     = "version"
	KeyRequested   = "requested_version"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyPath        = "path"
	KeyFile        = "file"
	KeyChecker     = "checker"
	KeyProcessor   = "processor"
	KeyExitCode    = "exit_code"
	KeyCommitID    = "commit_id"
	KeyCount       = "count"
	KeyURL         = "url"
	KeyName        = "name"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func OperationID(id string) slog.Attr { return slog.String(KeyOperationID, id) }
func Platform(name string) slog.Attr  { return slog.String(KeyPlatform, name) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Requested(v string) slog.Attr    { return slog.String(KeyRequested, v) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Checker(name string) slog.Attr   { return slog.String(KeyChecker, name) }
func Processor(name string) slog.Attr { return slog.String(KeyProcessor, name) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func CommitID(id string) slog.Attr    { return slog.String(KeyCommitID, id) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
