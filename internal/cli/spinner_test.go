package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerBasic(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Testing...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Testing...") {
		t.Errorf("spinner output %q should contain the message", out.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, io.Discard, "Testing with context...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), io.Discard, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
}

func TestSpin(t *testing.T) {
	sentinel := errors.New("boom")

	var out syncBuffer
	if err := spin(context.Background(), &out, false, "working", func() error { return sentinel }); err != sentinel {
		t.Errorf("spin() = %v, want %v", err, sentinel)
	}

	var quiet syncBuffer
	called := false
	if err := spin(context.Background(), &quiet, true, "working", func() error { called = true; return nil }); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("quiet spin should still run fn")
	}
	if quiet.String() != "" {
		t.Errorf("quiet spin wrote %q", quiet.String())
	}
}
