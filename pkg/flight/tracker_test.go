package flight

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginDeduplicatesPendingAndDone(t *testing.T) {
	tracker := NewTracker[int64]()

	first, ok := tracker.Begin(42)
	require.True(t, ok)
	assert.Equal(t, StatusPending, tracker.Status(42))

	_, ok = tracker.Begin(42)
	assert.False(t, ok, "pending id must not issue a second fetch")

	require.True(t, tracker.Commit(first))
	assert.Equal(t, StatusDone, tracker.Status(42))

	_, ok = tracker.Begin(42)
	assert.False(t, ok, "committed id must not refetch")
}

func TestLastIntentWins(t *testing.T) {
	orders := map[string][]int{
		"older resolves first": {0, 1},
		"newer resolves first": {1, 0},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			tracker := NewTracker[int64]()
			a, ok := tracker.Begin(1)
			require.True(t, ok)
			b, ok := tracker.Begin(2)
			require.True(t, ok)

			tickets := []Ticket[int64]{a, b}
			committed := map[int64]bool{}
			for _, idx := range order {
				ticket := tickets[idx]
				committed[ticket.ID] = tracker.Commit(ticket)
			}
			assert.False(t, committed[1])
			assert.True(t, committed[2])
			assert.Equal(t, StatusDone, tracker.Status(2))
			assert.Equal(t, StatusIdle, tracker.Status(1))
		})
	}
}

func TestFailAllowsRetryOnNextBegin(t *testing.T) {
	tracker := NewTracker[int64]()
	ticket, _ := tracker.Begin(7)
	require.True(t, tracker.Fail(ticket))
	assert.Equal(t, StatusIdle, tracker.Status(7))

	_, ok := tracker.Begin(7)
	assert.True(t, ok)
}

func TestAdoptSupersedesPending(t *testing.T) {
	tracker := NewTracker[int64]()
	pending, _ := tracker.Begin(9)
	tracker.Adopt(3)

	assert.False(t, tracker.Commit(pending))
	assert.Equal(t, StatusDone, tracker.Status(3))
	_, ok := tracker.Begin(3)
	assert.False(t, ok)
}

func TestForceRefetchesCommittedID(t *testing.T) {
	tracker := NewTracker[int64]()
	first, _ := tracker.Begin(4)
	require.True(t, tracker.Commit(first))

	second := tracker.Force(4)
	assert.Equal(t, StatusPending, tracker.Status(4))
	assert.False(t, tracker.Commit(first))
	assert.True(t, tracker.Commit(second))
}

func TestResetInvalidatesTickets(t *testing.T) {
	tracker := NewTracker[int64]()
	ticket, _ := tracker.Begin(5)
	tracker.Reset()

	assert.False(t, tracker.Commit(ticket))
	assert.False(t, tracker.Fail(ticket))
	_, ok := tracker.Begin(5)
	assert.True(t, ok)
}

func TestConcurrentBeginIssuesOneTicket(t *testing.T) {
	tracker := NewTracker[string]()
	var wg sync.WaitGroup
	var mu sync.Mutex
	issued := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := tracker.Begin("stone-1"); ok {
				mu.Lock()
				issued++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, issued)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "done", StatusDone.String())
}
