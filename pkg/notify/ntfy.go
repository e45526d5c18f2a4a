package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Ntfy pushes notices to an ntfy topic.
type Ntfy struct {
	serverURL     string
	topic         string
	client        *http.Client
	maxRetries    uint64
	retryInterval time.Duration
}

var _ Notifier = (*Ntfy)(nil)

// NtfyConfig holds configuration for the ntfy backend
type NtfyConfig struct {
	// ServerURL is the ntfy server URL (e.g., "https://ntfy.sh")
	ServerURL string

	// Topic is the ntfy topic to send notices to
	Topic string

	// Timeout for each HTTP request (optional, defaults to 10s)
	Timeout time.Duration

	// MaxRetries bounds delivery attempts after the first (defaults to 2)
	MaxRetries int

	// RetryInterval is the initial delay between attempts (defaults to 500ms)
	RetryInterval time.Duration
}

// NewNtfy creates a new ntfy backend.
func NewNtfy(cfg NtfyConfig) *Ntfy {
	if cfg.ServerURL == "" {
		cfg.ServerURL = "https://ntfy.sh"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}

	return &Ntfy{
		serverURL:     strings.TrimRight(cfg.ServerURL, "/"),
		topic:         cfg.Topic,
		client:        &http.Client{Timeout: cfg.Timeout},
		maxRetries:    uint64(cfg.MaxRetries),
		retryInterval: cfg.RetryInterval,
	}
}

func (b *Ntfy) Name() string {
	return "ntfy"
}

// Notify posts the notice, retrying network failures and retryable statuses
// with exponential backoff.
func (b *Ntfy) Notify(ctx context.Context, n Notice) error {
	url := fmt.Sprintf("%s/%s", b.serverURL, b.topic)

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(n.Message))
		if err != nil {
			return backoff.Permanent(&Error{Backend: "ntfy", Err: err})
		}

		req.Header.Set("Title", "planbook")
		req.Header.Set("Priority", ntfyPriority(n.Level))
		req.Header.Set("Tags", string(n.Level))

		resp, err := b.client.Do(req)
		if err != nil {
			return &Error{Backend: "ntfy", Retryable: true, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := &Error{
				Backend:   "ntfy",
				Retryable: isRetryableHTTPStatus(resp.StatusCode),
				Err:       fmt.Errorf("ntfy request failed with status %d", resp.StatusCode),
			}
			if !err.Retryable {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = b.retryInterval
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, b.maxRetries), ctx))
}

// ntfyPriority maps a level onto ntfy priorities (1=min, 3=default, 5=max).
func ntfyPriority(level Level) string {
	switch level {
	case LevelError:
		return "5"
	case LevelWarning:
		return "4"
	case LevelSuccess:
		return "2"
	default:
		return "3"
	}
}

// isRetryableHTTPStatus determines if an HTTP status code represents a
// retryable delivery error.
func isRetryableHTTPStatus(status int) bool {
	switch {
	case status >= 500:
		return true
	case status == http.StatusTooManyRequests:
		return true
	case status == http.StatusRequestTimeout:
		return true
	default:
		return false
	}
}
