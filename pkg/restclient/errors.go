package restclient

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies an HTTP-level failure derived from the response status.
type ErrorKind int

const (
	// KindUnknown covers every status >= 400 not mapped below.
	KindUnknown ErrorKind = iota
	// KindUnauthorized corresponds to status 401.
	KindUnauthorized
	// KindNotFound corresponds to status 404.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is dispatch on ResponseError kinds.
var (
	ErrUnauthorized = &ResponseError{Kind: KindUnauthorized, StatusCode: http.StatusUnauthorized}
	ErrNotFound     = &ResponseError{Kind: KindNotFound, StatusCode: http.StatusNotFound}
	ErrUnknown      = &ResponseError{Kind: KindUnknown}
)

// ResponseError is returned when the server answers with status >= 400.
type ResponseError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	cause      error
}

func (e *ResponseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	return fmt.Sprintf("response status %d: %s", e.StatusCode, msg)
}

func (e *ResponseError) Unwrap() error { return e.cause }

// Is matches any ResponseError of the same kind, so callers can write
// errors.Is(err, restclient.ErrNotFound) without caring about message or code.
func (e *ResponseError) Is(target error) bool {
	t, ok := target.(*ResponseError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// newResponseError maps a status code to its error kind.
func newResponseError(statusCode int, body []byte) *ResponseError {
	e := &ResponseError{StatusCode: statusCode, Message: bodySnippet(body)}
	switch statusCode {
	case http.StatusUnauthorized:
		e.Kind = KindUnauthorized
		if e.Message == "" {
			e.Message = "invalid user name or password"
		}
	case http.StatusNotFound:
		e.Kind = KindNotFound
		if e.Message == "" {
			e.Message = "resource is not found"
		}
	default:
		e.Kind = KindUnknown
	}
	return e
}

// DecodeError is returned when a success body cannot be decoded into the
// requested target type.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response body: %v", e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }
