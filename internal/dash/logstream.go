package dash

import (
	"context"
	"log/slog"
)

// logTailLines is the backfill requested when a log view opens.
const logTailLines = 100

// LogStreamer follows one container's combined stdout/stderr while that
// container is being viewed. At most one instance is alive at a time;
// the reducer cancels the previous one before starting a new one.
type LogStreamer struct {
	client Client
	key    ContainerKey
	bus    *Bus
}

// NewLogStreamer creates a streamer for the given container.
func NewLogStreamer(client Client, key ContainerKey, bus *Bus) *LogStreamer {
	return &LogStreamer{client: client, key: key, bus: bus}
}

// Run streams and parses log lines until the stream ends, errors, or ctx
// is cancelled. Stream errors end it silently: a broken log stream says
// nothing about the container's lifecycle, so no destroy event is emitted.
func (ls *LogStreamer) Run(ctx context.Context) {
	lines, errs := ls.client.StreamLogs(ctx, ls.key.ContainerID, logTailLines)

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if err != nil && ctx.Err() == nil {
				slog.Debug("log stream ended", "container", ls.key.ContainerID, "host", ls.key.HostID, "error", err)
			}
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if entry, ok := ParseLogLine(line); ok {
				ls.bus.Post(LogLine{Key: ls.key, Entry: entry})
			}
		}
	}
}
