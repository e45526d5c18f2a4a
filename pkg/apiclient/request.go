package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"
)

// ResponseType selects how a 2xx response is handled.
type ResponseType int

const (
	// ResponseJSON decodes and normalizes the envelope.
	ResponseJSON ResponseType = iota

	// ResponseBinary hands the raw response to the caller.
	ResponseBinary
)

// Request describes one call through the client.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header

	// Body is encoded as JSON when non-nil and Multipart is nil.
	Body any

	// Multipart, when set, is sent as multipart/form-data.
	Multipart *Multipart

	ResponseType ResponseType

	// HideErrorMessage keeps failures off the notification channel. The
	// zero value reports them.
	HideErrorMessage bool

	// ShowSuccessMessage reports the envelope message on success.
	ShowSuccessMessage bool

	err error
}

func newRequest(method, path string, opts []Option) *Request {
	r := &Request{
		Method: method,
		Path:   path,
		Query:  url.Values{},
		Header: http.Header{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option customizes a single request.
type Option func(*Request)

// WithQuery adds query string values.
func WithQuery(values url.Values) Option {
	return func(r *Request) {
		for k, vs := range values {
			for _, v := range vs {
				r.Query.Add(k, v)
			}
		}
	}
}

// WithParams flattens a struct into query string values using its
// mapstructure tags. Fields tagged omitempty are dropped when zero; nil
// pointers are always dropped.
func WithParams(params any) Option {
	return func(r *Request) {
		values, err := encodeParams(params)
		if err != nil {
			if r.err == nil {
				r.err = fmt.Errorf("invalid query parameters: %w", err)
			}
			return
		}
		WithQuery(values)(r)
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) Option {
	return func(r *Request) {
		r.Header.Set(key, value)
	}
}

// WithErrorMessage controls whether failures are reported to the
// notification channel. Defaults to true.
func WithErrorMessage(show bool) Option {
	return func(r *Request) {
		r.HideErrorMessage = !show
	}
}

// WithSuccessMessage controls whether successful calls are reported to the
// notification channel. Defaults to false.
func WithSuccessMessage(show bool) Option {
	return func(r *Request) {
		r.ShowSuccessMessage = show
	}
}

// WithValidation validates v before the request is built. A validation
// error aborts the call as a configuration failure.
func WithValidation(v validation.Validatable) Option {
	return func(r *Request) {
		if r.err != nil || v == nil {
			return
		}
		if err := v.Validate(); err != nil {
			r.err = err
		}
	}
}

func encodeParams(params any) (url.Values, error) {
	if params == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(params)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, nil
	}

	if values, ok := params.(url.Values); ok {
		return values, nil
	}

	var flat map[string]interface{}
	if err := mapstructure.Decode(params, &flat); err != nil {
		return nil, err
	}

	values := url.Values{}
	for key, raw := range flat {
		v := reflect.ValueOf(raw)
		for v.IsValid() && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v = reflect.Value{}
				break
			}
			v = v.Elem()
		}
		if !v.IsValid() {
			continue
		}
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				values.Add(key, fmt.Sprint(v.Index(i).Interface()))
			}
			continue
		}
		values.Set(key, fmt.Sprint(v.Interface()))
	}
	return values, nil
}

// Multipart is a multipart/form-data body.
type Multipart struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	content         io.Reader
}

// NewMultipart returns an empty form.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// AddField appends a text field.
func (m *Multipart) AddField(name, value string) *Multipart {
	m.fields = append(m.fields, formField{name: name, value: value})
	return m
}

// AddFile appends a file part. content is read when the request is sent.
func (m *Multipart) AddFile(field, filename string, content io.Reader) *Multipart {
	m.files = append(m.files, formFile{field: field, filename: filename, content: content})
	return m
}

// encode returns the form body and its content type, boundary included.
func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %q: %w", f.name, err)
		}
	}
	for _, f := range m.files {
		part, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %q: %w", f.field, err)
		}
		if _, err := io.Copy(part, f.content); err != nil {
			return nil, "", fmt.Errorf("failed to read form file %q: %w", f.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}
