package navigation

import (
	"context"
	"sync"
)

// History is an in-process Navigator that records where the user has been.
// Navigating to the current location is a no-op, so repeated redirects to
// the same page collapse into one entry.
type History struct {
	mu      sync.Mutex
	entries []Location
	next    Navigator
}

var _ Navigator = (*History)(nil)

// NewHistory starts a history at start. When next is non-nil every recorded
// navigation is forwarded to it.
func NewHistory(start Location, next Navigator) *History {
	return &History{
		entries: []Location{start},
		next:    next,
	}
}

func (h *History) NavigateTo(ctx context.Context, to Location) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.entries[len(h.entries)-1].Equal(to) {
		return nil
	}
	h.entries = append(h.entries, to)

	if h.next != nil {
		return h.next.NavigateTo(ctx, to)
	}
	return nil
}

// Current returns the current location.
func (h *History) Current() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Navigations returns every location moved to after the start, oldest first.
func (h *History) Navigations() []Location {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Location, len(h.entries)-1)
	copy(out, h.entries[1:])
	return out
}
