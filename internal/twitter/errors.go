package twitter

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is returned when a status update or media caption is empty.
	ErrEmptyText = errors.New("tweet text is empty")

	// ErrMutualExclusion is returned when GET fields are set while POST
	// fields exist, or the reverse.
	ErrMutualExclusion = errors.New("GET and POST fields are mutually exclusive")

	// ErrMalformedQuery is returned for a GET field segment without "=".
	ErrMalformedQuery = errors.New("malformed query field")

	// ErrInvalidMethod is returned when signing with a method other than
	// get or post.
	ErrInvalidMethod = errors.New("method must be get or post")

	// ErrNotSigned is returned when Send is called before Sign.
	ErrNotSigned = errors.New("request has not been signed")
)

// TransportError wraps a failure of the underlying HTTP call (network,
// DNS, TLS). Application-level failures such as non-2xx statuses are not
// transport errors.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
