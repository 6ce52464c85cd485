package dash

import (
	"strings"
	"time"
)

// LogEntry is one parsed log line.
type LogEntry struct {
	Timestamp time.Time
	Message   string
}

// ParseLogLine parses a runtime log line of the form
// "2025-10-28T12:34:56.789Z message text". The prefix before the first
// space must be an RFC3339 timestamp; lines without a space or with an
// unparseable prefix are dropped (ok=false), never surfaced as errors.
func ParseLogLine(line string) (LogEntry, bool) {
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return LogEntry{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, line[:i])
	if err != nil {
		return LogEntry{}, false
	}
	return LogEntry{
		Timestamp: ts.UTC(),
		Message:   strings.TrimSpace(line[i+1:]),
	}, true
}
