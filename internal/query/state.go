package query

// Status is the lifecycle phase of a Query.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of a Query.
// Value is only meaningful when Status is StatusSucceeded,
// Err only when Status is StatusFailed.
type State[T any] struct {
	Status Status
	Value  T
	Err    error
}

func (s State[T]) IsIdle() bool      { return s.Status == StatusIdle }
func (s State[T]) IsRunning() bool   { return s.Status == StatusRunning }
func (s State[T]) IsSucceeded() bool { return s.Status == StatusSucceeded }
func (s State[T]) IsFailed() bool    { return s.Status == StatusFailed }
