package broadcast

import (
	"errors"
	"fmt"

	"iqt/internal/domain"
)

var (
	// ErrInvalidQuery is returned when the query fails validation
	ErrInvalidQuery = errors.New("invalid query")
	// ErrAborted is returned when the broadcast stopped before every endpoint was queried
	ErrAborted = errors.New("broadcast aborted")
	// ErrCancelled marks a request cut short because another endpoint failed
	ErrCancelled = errors.New("cancelled after another endpoint failed")
)

// TransportError means an endpoint could not be queried: the connection
// failed, timed out, or the response was not a query response
type TransportError struct {
	Endpoint domain.Endpoint
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
