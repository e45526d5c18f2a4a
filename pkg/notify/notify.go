// Package notify is the user-facing notification channel. The access layer
// reports every classified failure here exactly once; rendering is left to
// the configured backends.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a single user-visible message.
type Notice struct {
	Level   Level
	Message string

	// Kind is the failure kind for error notices, empty otherwise.
	Kind string

	// RequestID correlates the notice with the request that produced it.
	RequestID string

	Timestamp time.Time
}

// Notifier delivers notices.
type Notifier interface {
	// Name returns the backend identifier
	Name() string

	// Notify delivers a notice
	Notify(ctx context.Context, n Notice) error
}

// Error is returned by a backend that failed to deliver a notice.
type Error struct {
	Backend   string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	retryability := "permanent"
	if e.Retryable {
		retryability = "retryable"
	}
	return fmt.Sprintf("%s notifier error (%s): %v", e.Backend, retryability, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fanout delivers each notice to every backend and aggregates failures.
type Fanout struct {
	backends []Notifier
}

var _ Notifier = (*Fanout)(nil)

// NewFanout returns a Fanout over backends, skipping nil entries.
func NewFanout(backends ...Notifier) *Fanout {
	f := &Fanout{}
	for _, b := range backends {
		if b != nil {
			f.backends = append(f.backends, b)
		}
	}
	return f
}

func (f *Fanout) Name() string {
	names := make([]string, 0, len(f.backends))
	for _, b := range f.backends {
		names = append(names, b.Name())
	}
	return "fanout(" + strings.Join(names, ",") + ")"
}

// Backends returns the wrapped backends.
func (f *Fanout) Backends() []Notifier {
	return f.backends
}

// Notify delivers n to every backend, even when earlier ones fail.
func (f *Fanout) Notify(ctx context.Context, n Notice) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	var result *multierror.Error
	for _, b := range f.backends {
		if err := b.Notify(ctx, n); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Name() string                         { return "discard" }
func (discard) Notify(context.Context, Notice) error { return nil }
