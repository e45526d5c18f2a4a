package notify

import (
	"context"
	"sync"
	"time"
)

// Recorder keeps every notice it receives. Tests use it to assert what the
// user would have seen.
type Recorder struct {
	mu      sync.RWMutex
	notices []Notice

	// Err, when set, is returned from every Notify call after recording.
	Err error
}

var _ Notifier = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Name() string {
	return "recorder"
}

func (r *Recorder) Notify(ctx context.Context, n Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	r.notices = append(r.notices, n)
	return r.Err
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notices := make([]Notice, len(r.notices))
	copy(notices, r.notices)
	return notices
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		msgs = append(msgs, n.Message)
	}
	return msgs
}

// Count returns the number of recorded notices.
func (r *Recorder) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notices)
}

// Reset clears all recorded notices.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}
