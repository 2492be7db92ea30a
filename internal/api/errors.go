package api

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError is returned by every client call that did not produce a 2xx
// response with a decodable body. Status is 0 when no response arrived.
type RequestError struct {
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *RequestError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: HTTP error status %d", e.Method, e.Path, e.Status)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}

func IsNotFound(err error) bool { return StatusCode(err) == http.StatusNotFound }
