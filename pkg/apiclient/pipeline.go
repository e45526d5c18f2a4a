package apiclient

import (
	"net/http"

	"github.com/google/uuid"
)

// Header names set by the built-in stages.
const (
	HeaderRequestID   = "X-Request-Id"
	HeaderContentType = "Content-Type"

	ContentTypeJSON = "application/json;charset=UTF-8"
)

// RequestStage transforms an outgoing request before it is dispatched. A
// stage error aborts the call as a configuration failure.
type RequestStage func(req *http.Request, desc *Request) error

// TokenSource supplies the current session token. *session.State satisfies
// it.
type TokenSource interface {
	Token() string
}

// RequestIDStage tags the request with a fresh id unless the caller already
// set one.
func RequestIDStage() RequestStage {
	return func(req *http.Request, _ *Request) error {
		if req.Header.Get(HeaderRequestID) == "" {
			req.Header.Set(HeaderRequestID, uuid.NewString())
		}
		return nil
	}
}

// AuthStage attaches the session token to header, prefixed by scheme when
// scheme is non-empty. Nothing is attached while the session is anonymous.
func AuthStage(tokens TokenSource, header, scheme string) RequestStage {
	return func(req *http.Request, _ *Request) error {
		if tokens == nil {
			return nil
		}
		token := tokens.Token()
		if token == "" {
			return nil
		}
		if scheme != "" {
			token = scheme + " " + token
		}
		req.Header.Set(header, token)
		return nil
	}
}

// ContentTypeStage marks ordinary calls as JSON. Multipart requests keep
// the boundary content type set when the body was encoded.
func ContentTypeStage() RequestStage {
	return func(req *http.Request, desc *Request) error {
		if desc.Multipart != nil {
			return nil
		}
		req.Header.Set(HeaderContentType, ContentTypeJSON)
		return nil
	}
}
