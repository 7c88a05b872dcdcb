package sat

// Status describes where a simulator is in its lifecycle.
type Status int

const (
	StatusConfigured Status = iota
	StatusRunning
	StatusCompleted
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusConfigured:
		return "configured"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the simulator can tick no further.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAborted
}
