package apiclient

import (
	"encoding/json"
	"math"

	"github.com/tidwall/gjson"

	"github.com/jrepp/planbook/pkg/failure"
)

// Business codes carried in the envelope.
const (
	CodeOK           = 0
	CodeUnauthorized = 401
)

// Envelope is the wrapper the backend puts around every JSON payload.
type Envelope struct {
	// Code is nil when the backend omitted it or sent something other than
	// an integral number, which is not a success.
	Code *int

	Data    json.RawMessage
	Message string

	// Success is true only for a JSON true.
	Success bool
}

// decodeEnvelope parses a 2xx body. Each field is read on its own so a
// mistyped sibling never hides the code. Bodies that are not a JSON object
// are reported as business failures with the fallback message.
func decodeEnvelope(status int, body []byte) (*Envelope, *failure.Failure) {
	if !gjson.ValidBytes(body) {
		return nil, failure.Business(status, 0, "")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, failure.Business(status, 0, "")
	}

	env := &Envelope{}
	if code := root.Get("code"); code.Type == gjson.Number && code.Num == math.Trunc(code.Num) {
		c := int(code.Num)
		env.Code = &c
	}
	env.Success = root.Get("success").Type == gjson.True
	if msg := root.Get("message"); msg.Type == gjson.String {
		env.Message = msg.Str
	}
	if data := root.Get("data"); data.Exists() {
		env.Data = json.RawMessage(data.Raw)
	}
	return env, nil
}

// Normalize unwraps an envelope received with a 2xx status. The
// unauthorized code is checked before the success condition.
func Normalize(status int, env *Envelope) (json.RawMessage, *failure.Failure) {
	code := 0
	if env.Code != nil {
		code = *env.Code
	}

	switch {
	case env.Code != nil && code == CodeUnauthorized:
		return nil, failure.SessionExpired(status, code)
	case (env.Code != nil && code == CodeOK) || env.Success:
		return env.Data, nil
	default:
		return nil, failure.Business(status, code, env.Message)
	}
}
