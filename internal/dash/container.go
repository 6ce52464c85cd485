package dash

// ContainerKey uniquely identifies a container across the whole fleet.
type ContainerKey struct {
	HostID      string
	ContainerID string
}

// ContainerStats holds smoothed resource usage for one container.
// Net rates are bytes per second.
type ContainerStats struct {
	CPUPercent    float64
	MemoryPercent float64
	NetRxRate     float64
	NetTxRate     float64
}

// Container is one tracked container. Stats is overwritten in place on
// every metrics tick; the identity fields never change after creation
// (a meaningful status change arrives as a destroy/create pair, mirroring
// the runtime's own event semantics).
type Container struct {
	ID     string
	Name   string
	Status string
	HostID string
	Stats  ContainerStats
}

// Key returns the container's fleet-wide identity.
func (c *Container) Key() ContainerKey {
	return ContainerKey{HostID: c.HostID, ContainerID: c.ID}
}

// TruncateID shortens a container ID to the 12-character form the runtime
// uses in `docker ps` output. The API accepts either form.
func TruncateID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
