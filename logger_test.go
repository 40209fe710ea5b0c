package memcore

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/memcore/memory"
)

func TestLogUsageUntracked(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf)

	l.LogUsage(context.Background(), memory.Stats{AllocCount: 4})
	assert.Contains(t, buf.String(), `"blocks":4`)
	assert.NotContains(t, buf.String(), "current")
}

func TestLogLeaks(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf)

	assert.False(t, l.LogLeaks(context.Background(), memory.Stats{}))
	assert.NotContains(t, buf.String(), "leaked")

	assert.True(t, l.LogLeaks(context.Background(), memory.Stats{AllocCount: 2}))
	assert.Contains(t, buf.String(), "leaked blocks at shutdown")
	assert.NotContains(t, buf.String(), `"bytes"`)
}

func TestWithBackendField(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf).WithBackend("pages")

	l.Info("hello")
	assert.Contains(t, buf.String(), `"backend":"pages"`)
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), 12))
	l.LogUsage(context.Background(), memory.Stats{AllocCount: 1})
}
