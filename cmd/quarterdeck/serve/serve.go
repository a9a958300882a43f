// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package serve implements the "serve" subcommand: the network console
// server.
package serve

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/builtin"
	"github.com/quarterdeck-systems/quarterdeck/cmd/quarterdeck/cli"
	"github.com/quarterdeck-systems/quarterdeck/console"
	"github.com/quarterdeck-systems/quarterdeck/menudef"
)

// Command returns the "serve" subcommand.
func Command() *cli.Command {
	var configPath string
	var debug bool

	return &cli.Command{
		Name:    "serve",
		Summary: "Serve a menu over TCP and SSH",
		Description: `Run the console server described by a configuration file.

The configuration names a menu definition file, the listeners to bind
(plain TCP, SSH, or both), and the per-session settings: prompt, line
buffer size, idle timeout, session cap, and transcript capture. The
menu definition is validated against the built-in handler registry at
startup; "quarterdeck check" runs the same validation without starting
the server.

The server runs until SIGINT or SIGTERM, then stops accepting
connections and waits for active sessions to end.`,
		Usage: "quarterdeck serve --config FILE",
		Examples: []cli.Example{
			{
				Description: "Serve the console described by server.yaml",
				Command:     "quarterdeck serve --config /etc/quarterdeck/server.yaml",
			},
			{
				Description: "Same, with engine debug logging",
				Command:     "quarterdeck serve --config server.yaml --debug",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("serve", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path of the server configuration file")
			flagSet.BoolVar(&debug, "debug", false, "log engine debug events")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if configPath == "" {
				return cli.Validation("--config is required\n\nUsage: quarterdeck serve --config FILE")
			}
			if debug {
				logger = cli.NewLogger(slog.LevelDebug)
			}
			logger = logger.With("command", "serve")

			cfg, err := console.LoadConfig(configPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return cli.NotFound("configuration file %s does not exist", configPath)
				}
				return cli.Validation("%v", err)
			}

			def, err := menudef.ReadFile(cfg.Menu.File)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return cli.NotFound("menu definition %s does not exist", cfg.Menu.File)
				}
				return cli.Validation("%v", err)
			}
			root, err := menudef.Build(def, builtin.Registry())
			if err != nil {
				return cli.Validation("%v", err).
					WithHint("run 'quarterdeck check %s' for the full issue list", cfg.Menu.File)
			}

			server, err := console.NewServer(cfg, root, logger)
			if err != nil {
				return cli.Internal("%v", err)
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("console server starting", "menu", def.Label, "config", configPath)
			if err := server.ListenAndServe(ctx); err != nil {
				return cli.Transient("%v", err)
			}
			logger.Info("console server stopped")
			return nil
		},
	}
}
