package logging

import "log/slog"

// FieldSessionID tags every record from one roster invocation, so the lines
// of a shell session can be picked out of a shared log file.
const FieldSessionID = "session_id"

// withSession stamps sessionID on base before any group is opened. The key
// stays top level even for loggers that later call WithGroup.
func withSession(base slog.Handler, sessionID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return base.WithAttrs([]slog.Attr{slog.String(FieldSessionID, sessionID)})
}
