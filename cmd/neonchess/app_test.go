package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/neon-chess/config"
	"github.com/Carmen-Shannon/neon-chess/engine/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), append([]string{"neonchess"}, args...))
	return out.String(), err
}

func TestExportToStdout(t *testing.T) {
	out, err := run(t, "export", "--moves", "e2e4,e7e5", "--select", "g1")
	require.NoError(t, err)

	var payload board.Payload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "white", payload.Turn)
	require.NotNil(t, payload.SelectedSquare)
	assert.Equal(t, "g1", *payload.SelectedSquare)
	assert.Equal(t, []string{"e2", "f3", "h3"}, payload.LegalTargets)
	assert.Equal(t, "White to move", payload.StatusText)
	assert.Contains(t, payload.FEN, "4p3/4P3")
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	out, err := run(t, "export", "--fen", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "black", raw["turn"])
	assert.Nil(t, raw["selected_square"])
	for _, key := range []string{"fen", "legal_targets", "is_game_over", "status_text", "score_text", "legal_moves_uci"} {
		assert.Contains(t, raw, key)
	}
}

func TestExportRejectsBadInput(t *testing.T) {
	_, err := run(t, "export", "--moves", "e2e5")
	assert.ErrorIs(t, err, board.ErrIllegalMove)

	_, err = run(t, "export", "--fen", "not a fen")
	assert.Error(t, err)

	_, err = run(t, "export", "--select", "z9")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neonchess.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scene]\nseed = 7\n"), 0o644))

	out, err := run(t, "config", "--config", path)
	require.NoError(t, err)
	cfg, err := config.Decode([]byte(out), config.Config{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Scene.Seed)
	assert.Equal(t, config.Default().Window, cfg.Window)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neonchess.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidth = 900\nheight = 500\n[log]\nlevel = \"warn\"\n"), 0o644))

	var got config.Config
	cmd := &cli.Command{
		Name:  "probe",
		Flags: runFlags(&cli.StringFlag{Name: "config"}, &cli.StringFlag{Name: "log-level"}),
		Action: func(ctx context.Context, c *cli.Command) error {
			var err error
			got, err = loadConfig(c)
			return err
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"probe", "--config", path, "--height", "0", "--seed", "99", "--interactive"}))

	assert.Equal(t, 900, got.Window.Width, "file value survives when the flag is unset")
	assert.Equal(t, 1, got.Window.Height, "explicit flag wins and is normalized")
	assert.Equal(t, int64(99), got.Scene.Seed)
	assert.True(t, got.Camera.Interactive)
	assert.Equal(t, "warn", got.Log.Level)
	assert.True(t, got.Window.VSync)
}
