package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"sutra_api_key", "sk-live-123",
		"serper_api_key", "",
		"user_id", "alice",
		"query", "monsoon forecast",
		"dangling",
	})
	if out[1] != "[REDACTED]" {
		t.Fatalf("api key not redacted: %v", out[1])
	}
	if out[3] != "" {
		t.Fatalf("empty key should stay empty, got %v", out[3])
	}
	if s, _ := out[5].(string); len(s) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: %v", out[5])
	}
	if out[7] != "monsoon forecast" {
		t.Fatalf("plain value changed: %v", out[7])
	}
	if out[8] != "dangling" {
		t.Fatalf("odd trailing key lost: %v", out)
	}
}

func TestNop(t *testing.T) {
	l := Nop().With("service", "test")
	l.Info("hello", "token", "x")
	l.Sync()
}
