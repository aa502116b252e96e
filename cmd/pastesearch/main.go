// ABOUTME: Main entry point for the pastesearch command line tool
// ABOUTME: Wires configuration into the engine and dispatches the search, batch, diagnose and serve commands

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/byfranke/PastebinSearch/engine"
	"github.com/byfranke/PastebinSearch/pkg/config"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "pastesearch",
		Usage: "Search a public paste site and its search engine mirrors",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: defaultConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			SearchCommand(),
			AdvancedCommand(),
			ManualCommand(),
			BatchCommand(),
			DiagnoseCommand(),
			ServeCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// defaultConfigPath returns the per-user config file, or "" when there is no config directory
func defaultConfigPath() string {
	path, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return path
}

// loadConfig reads the config file and environment, applying the global flags
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.Bool("debug") {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// openEngine builds the engine for one command invocation
func openEngine(c *cli.Command) (*engine.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg)
}
