package apierr

import (
	"errors"
	"fmt"
)

// Error carries the HTTP status and machine-readable code a handler should answer with.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Rule maps a sentinel (matched with errors.Is) to a status and code.
type Rule struct {
	Target error
	Status int
	Code   string
}

// Classify returns the first match: an *Error in the chain, then the rules in order.
// Anything else becomes fallback.
func Classify(err error, rules []Rule, fallback *Error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	for _, r := range rules {
		if errors.Is(err, r.Target) {
			return &Error{Status: r.Status, Code: r.Code, Err: err}
		}
	}
	return &Error{Status: fallback.Status, Code: fallback.Code, Err: err}
}
