// Package testhelpers routes test logging through t.Log so output only shows
// for failing tests.
package testhelpers

import (
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/claude/gymgpt/internal/logging"
)

type writer struct {
	t    testing.TB
	done atomic.Bool
}

// NewWriter returns an io.Writer that forwards each write to t.Log.
// Writing after the test has finished panics, which catches goroutines
// that outlive their test.
func NewWriter(t testing.TB) io.Writer {
	w := &writer{t: t}
	t.Cleanup(func() { w.done.Store(true) })
	return w
}

func (w *writer) Write(p []byte) (int, error) {
	if w.done.Load() {
		panic("testhelpers: write after test completion")
	}
	if out := strings.TrimSuffix(string(p), "\n"); out != "" {
		w.t.Log(out)
	}
	return len(p), nil
}

// NewLogger returns a debug-level logger writing to t.Log.
func NewLogger(t testing.TB) *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(NewWriter(t), &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
}
