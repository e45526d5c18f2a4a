package apiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jrepp/planbook/pkg/failure"
)

// Get performs a GET request and decodes the payload into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...Option) (T, error) {
	return decode[T](c.Get(ctx, path, opts...))
}

// Post performs a POST request and decodes the payload into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...Option) (T, error) {
	return decode[T](c.Post(ctx, path, body, opts...))
}

// Put performs a PUT request and decodes the payload into T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...Option) (T, error) {
	return decode[T](c.Put(ctx, path, body, opts...))
}

// Delete performs a DELETE request and decodes the payload into T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...Option) (T, error) {
	return decode[T](c.Delete(ctx, path, opts...))
}

// Patch performs a PATCH request and decodes the payload into T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...Option) (T, error) {
	return decode[T](c.Patch(ctx, path, body, opts...))
}

// Upload posts a multipart form and decodes the payload into T.
func Upload[T any](ctx context.Context, c *Client, path string, form *Multipart, opts ...Option) (T, error) {
	return decode[T](c.Upload(ctx, path, form, opts...))
}

// decode unmarshals a payload. An absent or null payload yields the zero
// value. A payload that does not fit T is a business failure: the server
// answered successfully with something the caller cannot use.
func decode[T any](data json.RawMessage, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if len(data) == 0 || string(data) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		f := failure.Business(0, 0, fmt.Sprintf("unexpected response payload: %v", err))
		f.Err = err
		return v, f
	}
	return v, nil
}
