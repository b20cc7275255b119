package activities

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from a downstream API
type APIError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// StatusCode lets the error handler pick the page status
func (e *APIError) StatusCode() int {
	return e.Status
}

// IsNotFound reports whether err is a 404 from an API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
