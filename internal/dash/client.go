package dash

import (
	"context"
	"time"
)

// ContainerSummary is one entry from a running-container listing.
// ID is already truncated to 12 characters.
type ContainerSummary struct {
	ID     string
	Name   string
	Status string
}

// ContainerDetails is the subset of an inspect response the engine needs.
type ContainerDetails struct {
	Name   string
	Status string
}

// LifecycleEvent is a runtime notification that a container changed state.
// ContainerID is the full ID as reported by the runtime.
type LifecycleEvent struct {
	Action      string // "start", "die" or "stop"
	ContainerID string
}

// StatsSample is one raw snapshot from a container's stats stream.
// CPU counters are cumulative nanoseconds; the Pre fields are the
// runtime-reported values from the preceding sample. Network counters are
// cumulative bytes summed over all interfaces.
type StatsSample struct {
	CPUTotal       uint64
	PreCPUTotal    uint64
	SystemUsage    uint64
	PreSystemUsage uint64
	OnlineCPUs     uint32
	MemUsage       uint64
	MemLimit       uint64
	RxBytes        uint64
	TxBytes        uint64
	Read           time.Time
}

// Client is the slice of the container runtime the engine consumes.
// All stream methods return a data channel and an error channel; the data
// channel is closed on natural end, and at most one error is delivered.
// Implementations must honor context cancellation at every blocking point.
type Client interface {
	// ListRunning returns the containers currently running on the host.
	ListRunning(ctx context.Context) ([]ContainerSummary, error)

	// Inspect looks up name and status for a single container.
	Inspect(ctx context.Context, id string) (ContainerDetails, error)

	// Lifecycle subscribes to container start/die/stop events.
	Lifecycle(ctx context.Context) (<-chan LifecycleEvent, <-chan error)

	// StreamStats subscribes to the container's streaming stats sequence.
	StreamStats(ctx context.Context, id string) (<-chan StatsSample, <-chan error)

	// StreamLogs follows the container's combined stdout/stderr with a
	// backfill of tail lines, timestamps included, demuxed into raw lines.
	StreamLogs(ctx context.Context, id string, tail int) (<-chan string, <-chan error)
}
