package httpclient

import (
	"fmt"
	"net/http"
)

// Request describes a single outbound call. Method defaults to GET.
type Request struct {
	Method string
	URL    string
	Header http.Header
}

// Get builds a GET request for url with optional headers.
func Get(url string, header http.Header) Request {
	return Request{Method: http.MethodGet, URL: url, Header: header}
}

// HTTPError represents a non-2xx response.
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

// Error returns the error message
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, url, message string) error {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
		Message:    message,
	}
}

// GuardError is returned when a response body does not have the expected shape.
type GuardError struct {
	Guard string
	URL   string
	Err   error
}

// Error implements the error interface.
func (e *GuardError) Error() string {
	return fmt.Sprintf("response from %s failed %s guard: %v", e.URL, e.Guard, e.Err)
}

// Unwrap returns the underlying validation error.
func (e *GuardError) Unwrap() error {
	return e.Err
}

// UnexpectedKindError is returned by FetchJSON when the response was not JSON.
type UnexpectedKindError struct {
	URL  string
	Kind Kind
}

// Error implements the error interface.
func (e *UnexpectedKindError) Error() string {
	return fmt.Sprintf("response from %s is %s, expected json", e.URL, e.Kind)
}
