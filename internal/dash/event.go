// Package dash is the monitoring engine behind the dashboard: per-host
// container discovery, per-container stat streaming, on-demand log
// streaming, and the single-threaded reducer that folds every event into
// one render-ready state.
package dash

// Event is anything the reducer consumes. Concrete types below; the
// reducer switches on them.
type Event any

// InitialSnapshot carries the full set of running containers discovered
// on a host at startup.
type InitialSnapshot struct {
	HostID     string
	Containers []*Container
}

// ContainerCreated announces a container first seen via a lifecycle event.
type ContainerCreated struct {
	Container *Container
}

// ContainerDestroyed announces that a container stopped, died, or that
// its stat stream ended.
type ContainerDestroyed struct {
	Key ContainerKey
}

// ContainerStat carries one smoothed metrics sample for a container.
type ContainerStat struct {
	Key   ContainerKey
	Stats ContainerStats
}

// LogLine carries one parsed log entry for the container being viewed.
type LogLine struct {
	Key   ContainerKey
	Entry LogEntry
}

// Command is a semantic input event produced by the keyboard worker or
// the signal watcher.
type Command int

const (
	SelectPrevious Command = iota
	SelectNext
	EnterPressed
	ExitLogView
	ScrollUp
	ScrollDown
	Resize
	Quit
)

// Bus is the bounded event channel shared by all producers. Posting never
// blocks: when the consumer falls behind, events are dropped rather than
// stalling a producer.
type Bus struct {
	ch chan Event
}

// DefaultBusCapacity bounds queued events between producer bursts and the
// reducer's drain.
const DefaultBusCapacity = 1000

// NewBus creates a bus with the given capacity.
func NewBus(capacity int) *Bus {
	return &Bus{ch: make(chan Event, capacity)}
}

// Post enqueues an event, dropping it when the bus is full.
func (b *Bus) Post(ev Event) {
	select {
	case b.ch <- ev:
	default:
	}
}

// C returns the receive side consumed by the reducer loop.
func (b *Bus) C() <-chan Event {
	return b.ch
}
