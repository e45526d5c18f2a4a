package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jrepp/planbook/pkg/failure"
	"github.com/jrepp/planbook/pkg/notify"
)

// MsgOperationSucceeded is reported on success when the envelope carries no
// message.
const MsgOperationSucceeded = "operation succeeded"

// maxErrorBody bounds how much of a non-2xx body is read for classification.
const maxErrorBody = 1 << 20

// UnauthorizedHandler reacts to a session the server no longer accepts.
// *unauthorized.Handler satisfies it.
type UnauthorizedHandler interface {
	Handle(ctx context.Context, requestID string) error
}

// Dependencies are the collaborators of a Client. Every field is optional.
type Dependencies struct {
	Session      TokenSource
	Notifier     notify.Notifier
	Unauthorized UnauthorizedHandler
	Logger       hclog.Logger

	// HTTPClient replaces the client built from Config. Its Timeout is left
	// as provided.
	HTTPClient *http.Client
}

// Client is the HTTP facade shared by every resource module. It is safe for
// concurrent use once all stages have been registered.
type Client struct {
	config       *Config
	base         *url.URL
	http         *http.Client
	notifier     notify.Notifier
	unauthorized UnauthorizedHandler
	log          hclog.Logger
	stages       []RequestStage
}

// New creates a Client. A nil cfg uses DefaultConfig.
func New(cfg *Config, deps Dependencies) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid API client config: %w", err)
	}
	base, err := cfg.ResolveBaseURL()
	if err != nil {
		return nil, fmt.Errorf("invalid API client config: %w", err)
	}

	c := &Client{
		config:       cfg,
		base:         base,
		http:         deps.HTTPClient,
		notifier:     deps.Notifier,
		unauthorized: deps.Unauthorized,
		log:          deps.Logger,
	}
	if c.http == nil {
		c.http = cfg.NewHTTPClient()
	}
	if c.notifier == nil {
		c.notifier = notify.Discard
	}
	if c.log == nil {
		c.log = hclog.NewNullLogger()
	}
	c.log = c.log.Named("apiclient")

	c.stages = []RequestStage{
		RequestIDStage(),
		AuthStage(deps.Session, cfg.AuthHeader, cfg.AuthScheme),
		ContentTypeStage(),
	}

	return c, nil
}

// Use appends a stage that runs after the built-in ones. It must not be
// called while requests are in flight.
func (c *Client) Use(stage RequestStage) {
	c.stages = append(c.stages, stage)
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get performs a GET request and returns the unwrapped payload.
func (c *Client) Get(ctx context.Context, path string, opts ...Option) (json.RawMessage, error) {
	return c.Do(ctx, newRequest(http.MethodGet, path, opts))
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...Option) (json.RawMessage, error) {
	r := newRequest(http.MethodPost, path, opts)
	r.Body = body
	return c.Do(ctx, r)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...Option) (json.RawMessage, error) {
	r := newRequest(http.MethodPut, path, opts)
	r.Body = body
	return c.Do(ctx, r)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...Option) (json.RawMessage, error) {
	return c.Do(ctx, newRequest(http.MethodDelete, path, opts))
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...Option) (json.RawMessage, error) {
	r := newRequest(http.MethodPatch, path, opts)
	r.Body = body
	return c.Do(ctx, r)
}

// Upload POSTs form as multipart/form-data.
func (c *Client) Upload(ctx context.Context, path string, form *Multipart, opts ...Option) (json.RawMessage, error) {
	r := newRequest(http.MethodPost, path, opts)
	if form == nil {
		form = NewMultipart()
	}
	r.Multipart = form
	return c.Do(ctx, r)
}

// Download performs a GET request and returns the raw response for any 2xx
// status. The caller must close the body.
func (c *Client) Download(ctx context.Context, path string, opts ...Option) (*http.Response, error) {
	r := newRequest(http.MethodGet, path, opts)
	r.ResponseType = ResponseBinary

	resp, requestID, f := c.send(ctx, r)
	if f != nil {
		return nil, c.fail(ctx, r, requestID, f)
	}
	return resp, nil
}

var errBinaryDo = errors.New("binary responses are not unwrapped, use Download")

// Do runs a request through the pipeline and returns the unwrapped
// payload. Binary requests are rejected with a ConfigError; use Download.
func (c *Client) Do(ctx context.Context, r *Request) (json.RawMessage, error) {
	if r.ResponseType == ResponseBinary {
		return nil, c.fail(ctx, r, "", failure.Config(errBinaryDo))
	}

	resp, requestID, f := c.send(ctx, r)
	if f != nil {
		return nil, c.fail(ctx, r, requestID, f)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, r, requestID, failure.Network(fmt.Errorf("failed to read response: %w", err)))
	}

	env, f := decodeEnvelope(resp.StatusCode, body)
	if f != nil {
		return nil, c.fail(ctx, r, requestID, f)
	}
	data, f := Normalize(resp.StatusCode, env)
	if f != nil {
		return nil, c.fail(ctx, r, requestID, f)
	}

	if r.ShowSuccessMessage {
		msg := env.Message
		if msg == "" {
			msg = MsgOperationSucceeded
		}
		c.report(ctx, notify.Notice{
			Level:     notify.LevelSuccess,
			Message:   msg,
			RequestID: requestID,
		})
	}

	return data, nil
}

// send builds, prepares, and dispatches a request. Any non-2xx response is
// classified and its body closed; a 2xx response is returned open.
func (c *Client) send(ctx context.Context, r *Request) (*http.Response, string, *failure.Failure) {
	req, err := c.build(ctx, r)
	if err != nil {
		return nil, "", failure.Config(err)
	}
	for _, stage := range c.stages {
		if err := stage(req, r); err != nil {
			return nil, req.Header.Get(HeaderRequestID), failure.Config(err)
		}
	}
	requestID := req.Header.Get(HeaderRequestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request not answered",
			"method", r.Method,
			"path", req.URL.Path,
			"request_id", requestID,
			"error", err,
		)
		return nil, requestID, failure.Network(err)
	}

	c.log.Debug("request completed",
		"method", r.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, requestID, failure.FromStatus(resp.StatusCode, body)
	}

	return resp, requestID, nil
}

// build constructs the http.Request for r without running any stage.
func (c *Client) build(ctx context.Context, r *Request) (*http.Request, error) {
	if r.err != nil {
		return nil, r.err
	}

	endpoint, err := c.endpoint(r.Path, r.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	contentType := ""
	switch {
	case r.Multipart != nil:
		buf, ct, err := r.Multipart.encode()
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case r.Body != nil:
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set(HeaderContentType, contentType)
	}
	if r.ResponseType == ResponseBinary {
		req.Header.Set("Accept", "*/*")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	return req, nil
}

// endpoint joins path onto the base URL. A query string embedded in path is
// merged with query.
func (c *Client) endpoint(path string, query url.Values) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", fmt.Errorf("request path must be relative to the base URL, got: %q", path)
	}

	u := *c.base
	u.RawPath = ""
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")

	q := ref.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// fail reports f once and returns it. Session expiry is reported by the
// unauthorized handler instead, which runs regardless of r.HideErrorMessage.
func (c *Client) fail(ctx context.Context, r *Request, requestID string, f *failure.Failure) error {
	c.log.Warn("request failed",
		"method", r.Method,
		"path", r.Path,
		"kind", f.Kind,
		"status", f.Status,
		"code", f.Code,
		"request_id", requestID,
		"message", f.Message,
	)

	if f.Kind == failure.KindSessionExpired {
		if c.unauthorized != nil {
			if err := c.unauthorized.Handle(ctx, requestID); err != nil {
				c.log.Error("unauthorized handler failed", "request_id", requestID, "error", err)
			}
		} else if !r.HideErrorMessage {
			c.reportFailure(ctx, requestID, f)
		}
		return f
	}

	if !r.HideErrorMessage {
		c.reportFailure(ctx, requestID, f)
	}
	return f
}

func (c *Client) reportFailure(ctx context.Context, requestID string, f *failure.Failure) {
	c.report(ctx, notify.Notice{
		Level:     notify.LevelError,
		Message:   f.Message,
		Kind:      string(f.Kind),
		RequestID: requestID,
	})
}

// report delivers a notice. Delivery failures are logged and never change
// the outcome of the call.
func (c *Client) report(ctx context.Context, n notify.Notice) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	if err := c.notifier.Notify(ctx, n); err != nil {
		c.log.Error("failed to deliver notice",
			"notifier", c.notifier.Name(),
			"request_id", n.RequestID,
			"error", err,
		)
	}
}
