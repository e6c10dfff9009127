package photoapp

import (
	"errors"
	"fmt"
)

// TransportError reports that a request never produced a response:
// connection failure, timeout, or a body that could not be read. This
// is the only error class eligible for retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ClientError reports a request the server rejected as the caller's
// fault (an invalid id, a bad request body). Never retried.
type ClientError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: status code %d: %s", e.Op, e.StatusCode, e.Message)
}

// ServerError reports a response the server produced but could not
// fulfill. The server side runs its own retries, so a received error
// response is final and never retried here.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: status code %d: %s", e.Op, e.StatusCode, e.Message)
}

// ValidationError reports a local precondition failure detected before
// any network attempt was made.
type ValidationError struct {
	Op      string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// IsRetryable reports whether err is a transport-level failure worth
// retrying. Received error responses (client or server fault) and
// local validation failures are permanent.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
