package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"session_token", "abc",
		"password", "hunter2",
		"email", "admin@scacompany.com",
		"batch_number", "L001",
	})
	if len(out) != 8 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("token not redacted: %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("password not redacted: %v", out[3])
	}
	hashed, _ := out[5].(string)
	if !strings.HasPrefix(hashed, "hash:") {
		t.Fatalf("email not hashed: %v", out[5])
	}
	if out[7] != "L001" {
		t.Fatalf("plain value changed: %v", out[7])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"product_id", "p1", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestNewTestModeIsSilent(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.With("service", "X").Info("hello", "k", "v")
	log.Sync()
}
