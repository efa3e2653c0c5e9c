package testutil

import (
	"log/slog"
	"testing"
)

func TestLogRecorder(t *testing.T) {
	logger, rec := NewLogger()
	logger.Debug("pass", slog.Int("n", 1))
	logger.With("x", 1).Info("pass", slog.Int("n", 2))
	logger.Warn("other")

	if got := rec.Count("pass"); got != 2 {
		t.Errorf("Count(pass) = %d, want 2", got)
	}
	v, ok := rec.Attr("pass", "n")
	if !ok || v.Int64() != 2 {
		t.Errorf("Attr(pass, n) = %v, %v; want 2", v, ok)
	}
	if _, ok := rec.Attr("missing", "n"); ok {
		t.Error("Attr(missing) ok = true")
	}
}

func TestAssertJSON(t *testing.T) {
	AssertJSON(t, map[string]int{"b": 2, "a": 1}, `{"a": 1, "b": 2}`)
}
