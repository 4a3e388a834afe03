package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Carmen-Shannon/neon-chess/config"
	"github.com/Carmen-Shannon/neon-chess/engine"
	"github.com/Carmen-Shannon/neon-chess/engine/board"
	"github.com/Carmen-Shannon/neon-chess/engine/scene"
	"github.com/Carmen-Shannon/neon-chess/logx"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "neonchess.toml"

// newApp builds the command tree. Command output goes to out.
func newApp(out io.Writer) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   defaultConfigPath,
		Usage:   "path to the TOML settings file, ignored when missing",
	}
	levelFlag := &cli.StringFlag{
		Name:    "log-level",
		Aliases: []string{"l"},
		Usage:   "logger level (debug, info, warn, error)",
	}
	fenFlag := &cli.StringFlag{
		Name:  "fen",
		Value: board.StartingFEN,
		Usage: "starting position in FEN format",
	}

	return &cli.Command{
		Name:   "neonchess",
		Usage:  "cyberpunk 3D chess renderer",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "open the renderer window",
				Flags: runFlags(configFlag, levelFlag, fenFlag),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					initLogger(cfg)
					defer logx.Sync()
					return runRenderer(c, cfg)
				},
			},
			{
				Name:  "export",
				Usage: "write the JSON snapshot of a position",
				Flags: []cli.Flag{
					fenFlag,
					&cli.StringFlag{Name: "moves", Usage: "comma separated UCI moves played from the position"},
					&cli.StringFlag{Name: "select", Usage: "square to select before exporting, e.g. e2"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return exportPosition(out, c.String("fen"), c.String("moves"), c.String("select"), c.String("output"))
				},
			},
			{
				Name:  "config",
				Usage: "print the effective settings as TOML",
				Flags: []cli.Flag{configFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					data, err := cfg.Encode()
					if err != nil {
						return err
					}
					_, err = out.Write(data)
					return err
				},
			},
		},
	}
}

// runFlags returns the flags of the run command, the shared ones first.
func runFlags(shared ...cli.Flag) []cli.Flag {
	return append(shared,
		&cli.IntFlag{Name: "width", Usage: "window width in pixels"},
		&cli.IntFlag{Name: "height", Usage: "window height in pixels"},
		&cli.BoolFlag{Name: "vsync", Usage: "wait for vertical blank before presenting"},
		&cli.Int64Flag{Name: "seed", Usage: "procedural city seed"},
		&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "enable right-drag orbit and scroll zoom"},
		&cli.BoolFlag{Name: "profile", Usage: "log frame statistics every second"},
		&cli.BoolFlag{Name: "software", Usage: "force a CPU fallback adapter"},
	)
}

// loadConfig reads the settings file and applies the flags the user set explicitly.
func loadConfig(c *cli.Command) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("width") {
		cfg.Window.Width = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.Window.Height = c.Int("height")
	}
	if c.IsSet("vsync") {
		cfg.Window.VSync = c.Bool("vsync")
	}
	if c.IsSet("seed") {
		cfg.Scene.Seed = c.Int64("seed")
	}
	if c.IsSet("interactive") {
		cfg.Camera.Interactive = c.Bool("interactive")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	return cfg.Normalized(), nil
}

func initLogger(cfg config.Config) {
	logx.Init(logx.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		Console:     cfg.Log.Console,
	})
}

func runRenderer(c *cli.Command, cfg config.Config) error {
	b, err := board.NewChessBoard(board.WithFEN(c.String("fen")))
	if err != nil {
		return err
	}
	e, err := engine.New(cfg,
		engine.WithSceneOptions(scene.WithBoard(b)),
		engine.WithProfiling(c.Bool("profile"), time.Second),
		engine.WithForceSoftwareRenderer(c.Bool("software")),
	)
	if err != nil {
		logx.Errorf("startup: %v", err)
		return err
	}
	e.Run()
	return nil
}

// exportPosition applies moves to fen, optionally selects a square, and writes the payload to path or out.
func exportPosition(out io.Writer, fen, moves, selectSquare, path string) error {
	b, err := board.NewChessBoard(board.WithFEN(fen))
	if err != nil {
		return err
	}
	if err := board.ApplyUCI(b, board.ParseMoveList(moves)); err != nil {
		return err
	}

	state := board.NewGameState(b)
	if selectSquare != "" {
		sq, err := board.ParseSquare(selectSquare)
		if err != nil {
			return err
		}
		if _, err := state.Click(sq); err != nil {
			return fmt.Errorf("select %s: %w", sq, err)
		}
	}

	data, err := state.Export().MarshalIndent()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
