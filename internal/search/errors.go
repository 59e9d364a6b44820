package search

import (
	"errors"
	"fmt"
)

var ErrMissingAPIKey = errors.New("search: api key required")

type HTTPError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s http error: status=%d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s http error: status=%d body=%s", e.Service, e.StatusCode, e.Body)
}
