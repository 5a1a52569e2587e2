package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer is a bytes.Buffer safe for the spinner goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var out lockedBuffer
	s := newSpinner("Rendering A5 grid sheet...")
	s.out = &out
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Rendering A5 grid sheet...") {
		t.Errorf("spinner output missing message: %q", out.String())
	}
	// Stop twice must not panic on the closed channel.
	s.cancel()
}

func TestSpinnerStopsWithContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s := newSpinnerWithContext(ctx, "Rendering...")
			s.out = &lockedBuffer{}
			s.Start()

			select {
			case <-s.stopped:
			case <-time.After(time.Second):
				t.Fatal("spinner goroutine did not exit")
			}
			if !s.Cancelled() {
				t.Error("spinner should report cancellation")
			}
		})
	}
}
