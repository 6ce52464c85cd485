package dash

import (
	"context"
	"log/slog"
)

// CPUPercent computes CPU usage percent from a raw sample, the same
// delta formula `docker stats` uses. Returns 0 when either delta is not
// positive, which also covers missing inputs and counter resets.
func CPUPercent(s StatsSample) float64 {
	cpuDelta := float64(s.CPUTotal) - float64(s.PreCPUTotal)
	systemDelta := float64(s.SystemUsage) - float64(s.PreSystemUsage)

	if systemDelta <= 0 || cpuDelta <= 0 {
		return 0
	}

	cpus := float64(s.OnlineCPUs)
	if cpus == 0 {
		cpus = 1
	}

	return (cpuDelta / systemDelta) * cpus * 100
}

// MemoryPercent computes memory usage percent from a raw sample.
// Returns 0 when the limit is missing or zero.
func MemoryPercent(s StatsSample) float64 {
	if s.MemLimit == 0 {
		return 0
	}
	return float64(s.MemUsage) / float64(s.MemLimit) * 100
}

// StatStreamer produces a smoothed resource-usage time series for one
// container. One instance runs per live container; smoothing state lives
// in the goroutine and resets cleanly if the streamer restarts.
type StatStreamer struct {
	client Client
	key    ContainerKey
	bus    *Bus
}

// NewStatStreamer creates a streamer for the given container.
func NewStatStreamer(client Client, key ContainerKey, bus *Bus) *StatStreamer {
	return &StatStreamer{client: client, key: key, bus: bus}
}

// Run consumes the stats stream until it ends, errors, or ctx is
// cancelled. On error or natural end it emits ContainerDestroyed exactly
// once: a dead stats stream means the container is no longer monitorable,
// whether or not a lifecycle event ever arrives. External cancellation
// emits nothing.
func (ss *StatStreamer) Run(ctx context.Context) {
	samples, errs := ss.client.StreamStats(ctx, ss.key.ContainerID)

	var cpu, mem, rx, tx EMA
	var prev StatsSample
	var hasPrev bool

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if ctx.Err() == nil {
				if err != nil {
					slog.Debug("stats stream error", "container", ss.key.ContainerID, "host", ss.key.HostID, "error", err)
				}
				ss.bus.Post(ContainerDestroyed{Key: ss.key})
			}
			return
		case s, ok := <-samples:
			if !ok {
				if ctx.Err() == nil {
					ss.bus.Post(ContainerDestroyed{Key: ss.key})
				}
				return
			}

			var rxRate, txRate float64
			if hasPrev {
				if dt := s.Read.Sub(prev.Read).Seconds(); dt > 0 {
					if s.RxBytes >= prev.RxBytes {
						rxRate = float64(s.RxBytes-prev.RxBytes) / dt
					}
					if s.TxBytes >= prev.TxBytes {
						txRate = float64(s.TxBytes-prev.TxBytes) / dt
					}
				}
			}
			prev, hasPrev = s, true

			ss.bus.Post(ContainerStat{
				Key: ss.key,
				Stats: ContainerStats{
					CPUPercent:    cpu.Add(CPUPercent(s)),
					MemoryPercent: mem.Add(MemoryPercent(s)),
					NetRxRate:     rx.Add(rxRate),
					NetTxRate:     tx.Add(txRate),
				},
			})
		}
	}
}
