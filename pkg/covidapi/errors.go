package covidapi

import (
	"fmt"
	"net/http"
)

// RequestError reports a non-success HTTP status from the backend.
type RequestError struct {
	Endpoint   string
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("API error: %s: %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}

// NetworkError reports a transport failure (connection refused, timeout, ...).
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
