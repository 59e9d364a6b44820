package llm

import (
	"errors"
	"fmt"
)

var (
	ErrNoMessages      = errors.New("llm: no messages")
	ErrEmptyCompletion = errors.New("llm: empty completion")
	ErrMissingAPIKey   = errors.New("llm: api key not configured")
)

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "upstream http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("upstream http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream http error: status=%d body=%s", e.StatusCode, e.Body)
}
