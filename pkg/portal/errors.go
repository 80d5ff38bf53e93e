package portal

import "fmt"

// APIError is returned for every expected request failure: a server-rejected
// request carries the server's status and error message verbatim, a
// transport-level failure (no response at all) carries Status 0 and a fixed
// connectivity message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unreachable reports whether the failure happened before any response was
// received, as opposed to being rejected by the server.
func (e *APIError) Unreachable() bool {
	return e.Status == 0
}

// ValidationError is returned when an operation's input is rejected locally,
// before any network traffic is issued.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
