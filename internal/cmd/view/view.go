// Package view parses view command flags and pages through an obstacle's
// compiled triggers in the terminal.
package view

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/louisbranch/obstacle-studio/internal/cmd/input"
	"github.com/louisbranch/obstacle-studio/internal/compiler"
	entrypoint "github.com/louisbranch/obstacle-studio/internal/platform/cmd"
	"github.com/louisbranch/obstacle-studio/internal/platform/config"
	"github.com/louisbranch/obstacle-studio/internal/platform/otel"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
)

// Config holds view command configuration.
type Config struct {
	Input   string
	DBPath  string `env:"DB_PATH"`
	Options compiler.Options
	OTel    otel.Config

	overrides input.Overrides
}

// ParseConfig parses environment and flags into Config. The input may also
// be given as the first positional argument.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	envSet, err := config.ParseEnvTracked(&cfg)
	if err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Input, "in", "", "project .json, obstacle .lua, or library ID")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "obstacle library used to resolve IDs")
	input.BindOptions(fs, &cfg.Options)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Input == "" && fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}
	cfg.overrides = input.TrackOptions(fs, envSet, cfg.Options)
	return cfg, nil
}

// Run compiles the configured input and opens the pager on the terminal.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if errOut == nil {
		errOut = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceView, cfg.OTel, func(ctx context.Context) error {
		blocks, err := compile(ctx, cfg)
		if err != nil {
			return err
		}
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer screen.Fini()

		p := newPager(blocks)
		if err := p.run(ctx, screen); err != nil {
			return err
		}
		log.New(errOut, "", 0).Printf("viewed %d triggers", len(p.starts))
		return nil
	})
}

func compile(ctx context.Context, cfg Config) ([]string, error) {
	table := refdata.Default()
	p, err := input.Load(ctx, input.Source{Path: cfg.Input, DBPath: cfg.DBPath}, table)
	if err != nil {
		return nil, err
	}
	p.Options = cfg.overrides.Apply(p.Options)
	return p.Blocks(table)
}
