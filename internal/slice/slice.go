// Package slice holds the plumbing shared by the state slices: the
// loading/error status enum and the request sequence tracker that keeps
// out-of-order network completions from regressing state.
package slice

// Status is the lifecycle of a slice's most recent operation.
type Status int

const (
	Idle Status = iota
	Loading
	Errored
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Errored:
		return "error"
	default:
		return "idle"
	}
}

// Tracker hands out a monotonically increasing tag per started operation
// and admits a completion only if it is at least as new as the last one
// applied. Callers must hold their slice's lock around Begin and Apply.
type Tracker struct {
	next    uint64
	applied uint64
}

// Begin allocates the tag for a new operation.
func (t *Tracker) Begin() uint64 {
	t.next++
	return t.next
}

// Apply reports whether the completion tagged tag may be applied, and if
// so records it as the newest applied completion. A false return means the
// response arrived after a newer operation already finished; the caller
// must discard it.
func (t *Tracker) Apply(tag uint64) bool {
	if tag < t.applied {
		return false
	}
	t.applied = tag
	return true
}
