package inspect

import "fmt"

// HostNotFoundError is returned when no GitLab server is configured for the host ID.
type HostNotFoundError struct {
	HostID string
}

// Error implements the error interface.
func (e HostNotFoundError) Error() string {
	return fmt.Sprintf("gitlab host %q is not configured", e.HostID)
}

// AbsentError is returned when a provider reported nothing for the request.
// A failed upstream fetch and a legitimately empty answer look the same.
type AbsentError struct {
	What string
	URL  string
}

// Error implements the error interface.
func (e AbsentError) Error() string {
	return fmt.Sprintf("no %s found for %s", e.What, e.URL)
}

// ContentParseError is returned when content classified as JSON cannot be parsed.
type ContentParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e ContentParseError) Error() string {
	return fmt.Sprintf("content %q is not valid json: %v", e.Path, e.Err)
}

// Unwrap returns the parse error.
func (e ContentParseError) Unwrap() error {
	return e.Err
}
