package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelByString(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, LevelByString("debug"))
	assert.Equal(t, zapcore.WarnLevel, LevelByString(" WARN "))
	assert.Equal(t, zapcore.InfoLevel, LevelByString("verbose"))
}

func TestJSONOutputUsesCustomKeys(t *testing.T) {
	var buf bytes.Buffer
	Set(New(Options{Level: "info", Output: &buf}))
	defer Set(nil)

	Infof("frame %d", 7)
	Debug("dropped")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "frame 7", entry["MESSAGE"])
	assert.Equal(t, "info", entry["LEVEL"])
	assert.Contains(t, entry, "TIME")
	assert.Contains(t, entry["CALLER"], "logx_test.go")
}

func TestSetNilInstallsNop(t *testing.T) {
	Set(nil)
	assert.NotPanics(t, func() {
		Warn("nothing")
		Sync()
	})
}
