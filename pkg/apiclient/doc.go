// Package apiclient is the single HTTP access layer used by every planbook
// resource module.
//
// # Overview
//
// A Client attaches the session token to outgoing requests, unwraps the
// backend response envelope, and turns every failure into a
// *failure.Failure. Resource modules never see the envelope: they get the
// decoded payload or an error.
//
// # Request Pipeline
//
// Every request runs through the same ordered stages before dispatch:
//
//  1. RequestIDStage sets X-Request-Id.
//  2. AuthStage sets the credential header when the session has a token.
//  3. ContentTypeStage sets the JSON or multipart content type.
//  4. Any stages registered with Client.Use, in registration order.
//
// # Response Handling
//
// A 2xx response is decoded as an envelope and passed to Normalize:
//
//	{"code": 0, "success": true, "data": ..., "message": "..."}
//
// A business code of 401 means the session is no longer valid. It is
// checked before the success condition, so an envelope that claims both
// is still treated as an expired session.
//
// A non-2xx response is classified by status (see failure.FromStatus).
// Requests that never got a response, including timeouts, are network
// failures; requests that could not be built are configuration failures.
//
// # Reporting
//
// Every failure is reported exactly once to the notification channel and
// returned to the caller unchanged. Session expiry is reported by the
// unauthorized handler, which also clears the session and navigates to the
// authentication entry point. Nothing is retried.
//
// # Downloads
//
// Download returns the raw *http.Response for 2xx responses without
// touching the body. The caller owns and must close it.
package apiclient
