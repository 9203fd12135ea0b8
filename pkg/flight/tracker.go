// Package flight keeps per-entity request bookkeeping so that at most one
// fetch per id is outstanding and only the most recently issued fetch may
// commit its result.
package flight

import "sync"

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	default:
		return "idle"
	}
}

// Ticket identifies one issued fetch.
type Ticket[K comparable] struct {
	ID  K
	seq uint64
}

// Tracker holds the latest intent for a single entity type.
type Tracker[K comparable] struct {
	mu      sync.Mutex
	seq     uint64
	current K
	status  Status
	active  bool
}

func NewTracker[K comparable]() *Tracker[K] {
	return &Tracker[K]{}
}

// Begin issues a ticket for id. It returns false when a fetch for id is
// already pending or has already been committed; any other outstanding
// ticket is superseded.
func (t *Tracker[K]) Begin(id K) (Ticket[K], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active && t.current == id && (t.status == StatusPending || t.status == StatusDone) {
		return Ticket[K]{}, false
	}
	t.seq++
	t.current = id
	t.status = StatusPending
	t.active = true
	return Ticket[K]{ID: id, seq: t.seq}, true
}

// Force issues a ticket for id regardless of its status, superseding any
// outstanding ticket.
func (t *Tracker[K]) Force(id K) Ticket[K] {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	t.current = id
	t.status = StatusPending
	t.active = true
	return Ticket[K]{ID: id, seq: t.seq}
}

// Commit reports whether ticket is still the latest intent and marks it done.
func (t *Tracker[K]) Commit(ticket Ticket[K]) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isLatest(ticket) {
		return false
	}
	t.status = StatusDone
	return true
}

// Fail releases a ticket so a later Begin for the same id issues a new fetch.
func (t *Tracker[K]) Fail(ticket Ticket[K]) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isLatest(ticket) {
		return false
	}
	t.status = StatusIdle
	return true
}

// Adopt records id as resolved without a fetch, superseding any pending ticket.
func (t *Tracker[K]) Adopt(id K) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	t.current = id
	t.status = StatusDone
	t.active = true
}

// Reset forgets the current intent and invalidates every issued ticket.
func (t *Tracker[K]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero K
	t.seq++
	t.current = zero
	t.status = StatusIdle
	t.active = false
}

// Status returns the bookkeeping state for id.
func (t *Tracker[K]) Status(id K) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active || t.current != id {
		return StatusIdle
	}
	return t.status
}

func (t *Tracker[K]) isLatest(ticket Ticket[K]) bool {
	return t.active && ticket.seq == t.seq && ticket.ID == t.current
}
