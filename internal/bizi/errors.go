package bizi

import (
	"errors"
	"fmt"
)

// TransportError means the request could not be sent or no usable response came back
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("transport error: status %d", e.Status)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-200 response with a structured error body
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// DecodeError is a 200 response whose body does not match the expected schema
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding stations response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Kind classifies err as "transport", "api", "decode" or "unknown"
func Kind(err error) string {
	var transportErr *TransportError
	var apiErr *APIError
	var decodeErr *DecodeError

	switch {
	case errors.As(err, &apiErr):
		return "api"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.As(err, &transportErr):
		return "transport"
	default:
		return "unknown"
	}
}
