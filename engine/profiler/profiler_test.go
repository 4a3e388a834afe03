package profiler

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/Carmen-Shannon/neon-chess/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickSamplesOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	logx.Set(logx.New(logx.Options{Level: "info", Output: &buf}))
	defer logx.Set(nil)

	start := time.Unix(100, 0)
	clock := start
	p := NewProfiler(time.Second)
	p.lastTime = start
	p.now = func() time.Time { return clock }

	for i := 0; i < 59; i++ {
		clock = clock.Add(10 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	clock = start.Add(2 * time.Second)
	require.True(t, p.Tick())

	s := p.Last()
	assert.InDelta(t, 30.0, s.FPS, 1e-9)
	assert.Equal(t, 2*time.Second/60, s.FrameTimeAvg)
	assert.Positive(t, s.HeapMB)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "frame stats", entry["MESSAGE"])
	assert.InDelta(t, 30.0, entry["fps"], 1e-9)

	// counters restart after a sample
	clock = clock.Add(500 * time.Millisecond)
	assert.False(t, p.Tick())
	assert.Equal(t, 1, p.frameCount)
}

func TestDefaultInterval(t *testing.T) {
	assert.Equal(t, time.Second, NewProfiler(0).updateInterval)
	assert.Equal(t, 250*time.Millisecond, NewProfiler(250*time.Millisecond).updateInterval)
}
