package remote

import "fmt"

// NetworkError wraps a transport failure (no connectivity, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError is a non-2xx response with the server's structured body.
type RemoteError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote %s: status %d", e.Op, e.StatusCode)
}
