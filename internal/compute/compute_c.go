package compute

import "context"

// InstanceStatus is a point-in-time view of the managed instance. It is
// fetched fresh for every operation and never cached.
type InstanceStatus struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	PublicIP string `json:"ip,omitempty"`
}

// Lifecycle states the operation handlers branch on. The control plane owns
// the full enumeration (pending, shutting-down, terminated, ...); everything
// else is treated as an opaque string.
const (
	StateRunning = "running"
	StateStopped = "stopped"
)

type StatusReader interface {
	Describe(ctx context.Context) (InstanceStatus, error)
}

type Controller interface {
	StatusReader
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
