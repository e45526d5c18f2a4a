// Package unauthorized implements the single reaction to a session the
// server no longer accepts: tell the user, forget the session, and send the
// user to the authentication entry point.
package unauthorized

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/jrepp/planbook/pkg/failure"
	"github.com/jrepp/planbook/pkg/navigation"
	"github.com/jrepp/planbook/pkg/notify"
)

// Clearer forgets the current session. *session.State satisfies it.
type Clearer interface {
	Clear() error
}

// Handler is safe to invoke any number of times, including concurrently.
// It never retries the request that triggered it.
type Handler struct {
	mu        sync.Mutex
	session   Clearer
	notifier  notify.Notifier
	navigator navigation.Navigator
	target    navigation.Location
	log       hclog.Logger
}

// Config holds the collaborators of a Handler.
type Config struct {
	Session   Clearer
	Notifier  notify.Notifier
	Navigator navigation.Navigator

	// Target is where the user is sent. Defaults to the authentication
	// entry point.
	Target navigation.Location

	Logger hclog.Logger
}

// New creates a Handler. Missing notifier or navigator collaborators are
// replaced with no-ops.
func New(cfg Config) *Handler {
	h := &Handler{
		session:   cfg.Session,
		notifier:  cfg.Notifier,
		navigator: cfg.Navigator,
		target:    cfg.Target,
		log:       cfg.Logger,
	}
	if h.notifier == nil {
		h.notifier = notify.Discard
	}
	if h.navigator == nil {
		h.navigator = navigation.NavigatorFunc(func(context.Context, navigation.Location) error { return nil })
	}
	if h.target.Path == "" {
		h.target = navigation.Location{Path: navigation.PathAuth}
	}
	if h.log == nil {
		h.log = hclog.NewNullLogger()
	}
	return h
}

// Handle runs the recovery steps in order: notice, clear, navigate. Every
// step runs even if an earlier one fails; failures are returned together
// for logging but do not change the outcome for the caller.
func (h *Handler) Handle(ctx context.Context, requestID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.log.Warn("session rejected by server, signing out", "request_id", requestID)

	// Recovery is not tied to the request context: the notice and the
	// redirect must happen even when the caller has given up on the request.
	ctx = context.WithoutCancel(ctx)

	var result *multierror.Error

	if err := h.notifier.Notify(ctx, notify.Notice{
		Level:     notify.LevelWarning,
		Message:   failure.MsgSessionExpired,
		Kind:      string(failure.KindSessionExpired),
		RequestID: requestID,
	}); err != nil {
		result = multierror.Append(result, err)
	}

	if h.session != nil {
		if err := h.session.Clear(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := h.navigator.NavigateTo(ctx, h.target); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		h.log.Error("error handling unauthorized session", "error", err)
		return err
	}
	return nil
}
