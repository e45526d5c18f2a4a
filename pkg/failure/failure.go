// Package failure defines the closed taxonomy of request failures and the
// rules that map transport statuses and envelope codes onto it.
package failure

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Kind identifies a class of failure.
type Kind string

const (
	KindBadRequest     Kind = "BadRequest"
	KindSessionExpired Kind = "SessionExpired"
	KindForbidden      Kind = "Forbidden"
	KindNotFound       Kind = "NotFound"
	KindServerError    Kind = "ServerError"
	KindBadGateway     Kind = "BadGateway"
	KindUnavailable    Kind = "Unavailable"
	KindGatewayTimeout Kind = "GatewayTimeout"
	KindUnknown        Kind = "Unknown"
	KindNetworkError   Kind = "NetworkError"
	KindConfigError    Kind = "ConfigError"
	KindBusinessError  Kind = "BusinessError"
)

// User-facing messages.
const (
	MsgBadRequest     = "invalid request parameters"
	MsgSessionExpired = "session expired, please log in again"
	MsgForbidden      = "access denied"
	MsgNotFound       = "requested resource does not exist"
	MsgServerError    = "internal server error"
	MsgBadGateway     = "gateway error"
	MsgUnavailable    = "service unavailable"
	MsgGatewayTimeout = "gateway timeout"
	MsgNetworkError   = "network connection failed, check network"
	MsgConfigError    = "invalid request configuration"
	MsgRequestFailed  = "request failed"
)

// Sentinels for errors.Is. A sentinel matches any Failure of the same kind.
var (
	ErrBadRequest     = &Failure{Kind: KindBadRequest}
	ErrSessionExpired = &Failure{Kind: KindSessionExpired}
	ErrForbidden      = &Failure{Kind: KindForbidden}
	ErrNotFound       = &Failure{Kind: KindNotFound}
	ErrServerError    = &Failure{Kind: KindServerError}
	ErrBadGateway     = &Failure{Kind: KindBadGateway}
	ErrUnavailable    = &Failure{Kind: KindUnavailable}
	ErrGatewayTimeout = &Failure{Kind: KindGatewayTimeout}
	ErrUnknown        = &Failure{Kind: KindUnknown}
	ErrNetworkError   = &Failure{Kind: KindNetworkError}
	ErrConfigError    = &Failure{Kind: KindConfigError}
	ErrBusinessError  = &Failure{Kind: KindBusinessError}
)

// Failure is a classified request failure.
type Failure struct {
	Kind    Kind
	Message string

	// Status is the transport status code, 0 when no response was received.
	Status int

	// Code is the envelope business code, 0 when no envelope was involved.
	Code int

	// Err is the underlying transport or construction error, if any.
	Err error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches other Failures of the same kind, so the package sentinels can
// be used with errors.Is.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok {
		return false
	}
	return t.Kind == f.Kind
}

// KindOf returns the kind of the first Failure in err's chain, or "" when
// err is not a Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// FromStatus classifies a response received with a non-2xx status. body is
// the raw response body; its "message" field is used where the status has no
// fixed message.
func FromStatus(status int, body []byte) *Failure {
	f := &Failure{Status: status}

	switch status {
	case http.StatusBadRequest:
		f.Kind = KindBadRequest
		f.Message = messageOr(body, MsgBadRequest)
	case http.StatusUnauthorized:
		f.Kind = KindSessionExpired
		f.Message = MsgSessionExpired
	case http.StatusForbidden:
		f.Kind = KindForbidden
		f.Message = MsgForbidden
	case http.StatusNotFound:
		f.Kind = KindNotFound
		f.Message = MsgNotFound
	case http.StatusInternalServerError:
		f.Kind = KindServerError
		f.Message = MsgServerError
	case http.StatusBadGateway:
		f.Kind = KindBadGateway
		f.Message = MsgBadGateway
	case http.StatusServiceUnavailable:
		f.Kind = KindUnavailable
		f.Message = MsgUnavailable
	case http.StatusGatewayTimeout:
		f.Kind = KindGatewayTimeout
		f.Message = MsgGatewayTimeout
	default:
		f.Kind = KindUnknown
		f.Message = messageOr(body, fmt.Sprintf("%s (%d)", MsgRequestFailed, status))
	}

	return f
}

// Network classifies a request that was sent but never answered, including
// timeouts and cancellations.
func Network(err error) *Failure {
	return &Failure{
		Kind:    KindNetworkError,
		Message: MsgNetworkError,
		Err:     err,
	}
}

// Config classifies a request that could not be constructed.
func Config(err error) *Failure {
	msg := MsgConfigError
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Failure{
		Kind:    KindConfigError,
		Message: msg,
		Err:     err,
	}
}

// SessionExpired builds the failure for an envelope carrying the
// "not authenticated" business code.
func SessionExpired(status, code int) *Failure {
	return &Failure{
		Kind:    KindSessionExpired,
		Message: MsgSessionExpired,
		Status:  status,
		Code:    code,
	}
}

// Business builds the failure for an envelope that reports an unsuccessful
// operation.
func Business(status, code int, message string) *Failure {
	if message == "" {
		message = MsgRequestFailed
	}
	return &Failure{
		Kind:    KindBusinessError,
		Message: message,
		Status:  status,
		Code:    code,
	}
}

// messageOr returns the string "message" field of a JSON body, or fallback.
func messageOr(body []byte, fallback string) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return fallback
	}
	m := gjson.GetBytes(body, "message")
	if m.Type != gjson.String || m.Str == "" {
		return fallback
	}
	return m.Str
}
