package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingID is returned by Update before any gateway call when the
	// entity carries no Id.
	ErrMissingID = errors.New("record id is required for update")
	// ErrNoRecords is returned when Create or Delete gets nothing to work on.
	ErrNoRecords = errors.New("no records given")
)

// GatewayError means the gateway call itself failed: the request could not be
// completed, the response could not be read, or the envelope reported a
// framework level failure.
type GatewayError struct {
	Op      string
	Table   string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsGatewayError reports whether err is or wraps a GatewayError.
func IsGatewayError(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr)
}
