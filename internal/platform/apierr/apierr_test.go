package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errGone = errors.New("gone")

func TestClassify(t *testing.T) {
	rules := []Rule{{Target: errGone, Status: http.StatusNotFound, Code: "not_found"}}
	fallback := New(http.StatusInternalServerError, "internal_error", nil)

	got := Classify(fmt.Errorf("wrap: %w", errGone), rules, fallback)
	if got.Status != http.StatusNotFound || got.Code != "not_found" {
		t.Fatalf("unexpected classification: %+v", got)
	}

	explicit := New(http.StatusTeapot, "teapot", errGone)
	if got := Classify(fmt.Errorf("outer: %w", explicit), rules, fallback); got != explicit {
		t.Fatalf("expected explicit error to win, got %+v", got)
	}

	got = Classify(errors.New("other"), rules, fallback)
	if got.Status != http.StatusInternalServerError || got.Error() != "other" {
		t.Fatalf("unexpected fallback: %+v", got)
	}
}
