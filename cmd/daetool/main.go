// daetool is a CLI utility for inspecting COLLADA scenes: structure,
// bounding volumes, frustum culling and ray picking.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-scene/internal/config"
	"github.com/Faultbox/midgard-scene/internal/logger"
)

type command func(t *tool, args []string) error

var commands = map[string]command{
	"info":   cmdInfo,
	"tree":   cmdTree,
	"lights": cmdLights,
	"bounds": cmdBounds,
	"cull":   cmdCull,
	"pick":   cmdPick,
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	name := os.Args[1]
	switch name {
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	}
	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", name)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := config.ParseFlags(os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := initLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	t := newTool(ctx, cfg, os.Stdout)
	defer t.Close()

	logger.Debug("running command", zap.String("command", name), zap.Strings("args", config.Args()))
	if err := run(t, config.Args()); err != nil {
		logger.Error("command failed", zap.String("command", name), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initLogger(cfg *config.Config) error {
	opts := logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: os.Stderr,
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	return logger.InitWithOptions(opts)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `daetool - COLLADA scene inspector

Usage:
  daetool <command> [options] <args>

Commands:
  info <file.dae>...          Show document summary (-watch keeps reporting changes)
  tree <file.dae>             Print the node hierarchy
  lights <file.dae>           List lights in world space
  bounds <file.dae>           Print world bounding volumes of mesh nodes
  cull <file.dae>             Classify mesh nodes against the camera frustum
  pick <file.dae> <x> <y>     Pick mesh nodes under a screen position

Examples:
  daetool info -root ./models house.dae
  daetool cull -width 1920 -height 1080 -yaw 90 house.dae
  daetool pick -precise house.dae 640 360

Options:`)
	config.SetOutput(w)
	config.PrintDefaults()
}
