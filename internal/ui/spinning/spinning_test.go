package spinning

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinning(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(context.Background(), buf)
	s.Done()
	s.Done() // Calling it twice is fine.
	out := buf.String()
	assert.Contains(t, out, "\033[?25l")
	assert.Contains(t, out, "\033[?25h")
	assert.Contains(t, out, "|")

	// Cancelling the context also stops it.
	buf = &bytes.Buffer{}
	ctx, cancel := context.WithCancel(context.Background())
	s = New(ctx, buf)
	cancel()
	s.Done()
	assert.Contains(t, buf.String(), "\033[?25h")
}
