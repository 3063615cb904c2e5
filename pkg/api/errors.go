package api

import (
	"errors"
	"fmt"
)

var ErrBodyTooLarge = errors.New("response body too large")

// NetworkError means the backend could not be reached or the response
// could not be read.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a response with a non-2xx status.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned %s: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("%s returned %s", e.URL, e.Status)
}

// DecodeError means an endpoint answered with something that is not the
// expected JSON document.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
