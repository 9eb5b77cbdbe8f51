package types

import "fmt"

// FaultKind classifies how a hardware or persistence operation failed.
// The sensor manager maps every kind to a documented fallback, so faults
// never propagate past it.
type FaultKind int

const (
	FaultRead       FaultKind = iota //transient channel read fault, substitute zero value
	FaultWrite                       //actuator command fault, command dropped
	FaultCapability                  //expected hardware function absent, permanent mock fallback
	FaultPersist                     //CSV or settings file I/O fault, operation skipped
)

// String returns a short name for the fault kind, used in log lines.
func (k FaultKind) String() string {
	switch k {
	case FaultRead:
		return "read"
	case FaultWrite:
		return "write"
	case FaultCapability:
		return "capability"
	case FaultPersist:
		return "persist"
	default:
		return "unknown"
	}
}

// Fault wraps a device error with its kind and the channel it hit.
type Fault struct {
	Kind    FaultKind
	Channel Channel
	Err     error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s fault on channel %s: %v", f.Kind, f.Channel, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// NewFault builds a Fault for the given kind and channel.
func NewFault(kind FaultKind, channel Channel, err error) *Fault {
	return &Fault{Kind: kind, Channel: channel, Err: err}
}
