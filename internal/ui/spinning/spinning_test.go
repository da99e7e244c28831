package spinning

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinning(t *testing.T) {
	var out bytes.Buffer
	s := NewWithWriter(context.Background(), &out, ThemeAscii, "Planning")
	time.Sleep(10 * time.Millisecond)
	s.Done()
	s.Done()
	got := out.String()
	assert.True(t, strings.HasPrefix(got, "\033[?25lPlanning |\b"), "got %q", got)
	assert.True(t, strings.HasSuffix(got, "\033[?25h"), "cursor not restored: %q", got)

	// Cancelling the context also stops it.
	out.Reset()
	ctx, cancel := context.WithCancel(context.Background())
	s = NewWithWriter(ctx, &out, ThemeAscii, "")
	cancel()
	s.Done()
	assert.Contains(t, out.String(), "\033[?25h")
}
