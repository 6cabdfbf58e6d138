package network

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers failures before a usable response arrived:
	// dial and read errors, and bodies that are not valid JSON.
	ErrTransport = errors.New("transport failure")
	// ErrNoPayload is returned for a 2xx response whose body has no data.
	ErrNoPayload = errors.New("response carried no data")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Code)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Code, e.Message)
}

// IsStatus reports whether err is a StatusError.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
