package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type sleepRecorder struct {
	waits []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func (r *sleepRecorder) total() time.Duration {
	var sum time.Duration
	for _, w := range r.waits {
		sum += w
	}
	return sum
}

func failingN(n int, calls *int) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		*calls++
		if *calls <= n {
			return "", fmt.Errorf("boom %d", *calls)
		}
		return "ok", nil
	}
}

func TestDo_SucceedsWhenFailuresBelowMax(t *testing.T) {
	p := Policy{MaxAttempts: 3, Delay: 2 * time.Second}
	for n := 0; n < p.MaxAttempts; n++ {
		t.Run(fmt.Sprintf("failures=%d", n), func(t *testing.T) {
			rec := &sleepRecorder{}
			calls := 0
			out, err := Do(context.Background(), p, failingN(n, &calls), WithSleep(rec.sleep))
			if err != nil || out != "ok" {
				t.Fatalf("Do: out=%q err=%v", out, err)
			}
			if calls != n+1 {
				t.Fatalf("calls=%d want %d", calls, n+1)
			}
			var want time.Duration
			for k := 1; k <= n; k++ {
				want += p.Backoff(k)
			}
			if rec.total() != want {
				t.Fatalf("slept %v want %v", rec.total(), want)
			}
		})
	}
}

func TestDo_ReturnsLastErrorWhenExhausted(t *testing.T) {
	p := Policy{MaxAttempts: 3, Delay: 2 * time.Second}
	rec := &sleepRecorder{}
	calls := 0
	_, err := Do(context.Background(), p, failingN(5, &calls), WithSleep(rec.sleep))
	if err == nil || err.Error() != "boom 3" {
		t.Fatalf("err=%v want boom 3", err)
	}
	if calls != 3 {
		t.Fatalf("calls=%d", calls)
	}
	// Linear: 2s after the first failure, 4s after the second, none after the last.
	if len(rec.waits) != 2 || rec.waits[0] != 2*time.Second || rec.waits[1] != 4*time.Second {
		t.Fatalf("waits=%v", rec.waits)
	}
}

func TestDo_OnRetryHook(t *testing.T) {
	var seen []int
	calls := 0
	_, _ = Do(context.Background(), Policy{MaxAttempts: 2}, failingN(2, &calls),
		WithSleep(func(context.Context, time.Duration) error { return nil }),
		WithOnRetry(func(attempt int, _ error, _ time.Duration) { seen = append(seen, attempt) }))
	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("hook attempts=%v", seen)
	}
}

func TestDo_ContextCanceledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, Policy{MaxAttempts: 3, Delay: time.Hour}, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("upstream")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestDo_ZeroAttemptsStillCallsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{}, failingN(0, &calls))
	if err != nil || calls != 1 {
		t.Fatalf("calls=%d err=%v", calls, err)
	}
}
