// Command typemock extracts field schemas from TypeScript interface
// declarations and turns them into JSON Schema, mock-data prompts and
// readable listings.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/typemock"
	"github.com/rlch/typemock/extract"
)

func main() {
	cmd := rootCommand()

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds state shared by every subcommand. It is filled in by the
// root command's Before hook.
type app struct {
	cfg *typemock.Config
	log *zap.Logger
	ext *extract.Extractor

	closeLog func() error
}

func rootCommand() *cli.Command {
	a := &app{}

	return &cli.Command{
		Name:  "typemock",
		Usage: "Extract field schemas from TypeScript interfaces",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to .typemock.yaml (default: search upwards from the working directory)",
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "default declaration file (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.listCommand(),
			a.showCommand(),
			a.jsonSchemaCommand(),
			a.validateCommand(),
			a.promptCommand(),
			a.fmtCommand(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}

	if source := cmd.String("source"); source != "" {
		cfg.Source = source
	}

	cfg = cfg.WithDefaults()

	log, closeLog, err := newLogger(cfg.Log, cmd.Bool("debug"), cmd.Root().ErrWriter)
	if err != nil {
		return ctx, fmt.Errorf("configuring logging: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.closeLog = closeLog
	a.ext = extract.New(extract.Options{Logger: log, Workers: cfg.Workers})

	return ctx, nil
}

func (a *app) after(context.Context, *cli.Command) error {
	if a.log != nil {
		_ = a.log.Sync()
	}

	if a.closeLog != nil {
		return a.closeLog()
	}

	return nil
}

func stdout(cmd *cli.Command) io.Writer { return cmd.Root().Writer }
