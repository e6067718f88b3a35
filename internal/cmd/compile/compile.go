// Package compile parses compile command flags and renders an obstacle's
// triggers.
package compile

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/louisbranch/obstacle-studio/internal/cmd/input"
	"github.com/louisbranch/obstacle-studio/internal/compiler"
	entrypoint "github.com/louisbranch/obstacle-studio/internal/platform/cmd"
	"github.com/louisbranch/obstacle-studio/internal/platform/config"
	"github.com/louisbranch/obstacle-studio/internal/platform/otel"
	"github.com/louisbranch/obstacle-studio/internal/platform/textenc"
	"github.com/louisbranch/obstacle-studio/internal/project"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Config holds compile command configuration.
type Config struct {
	Input    string
	DBPath   string `env:"DB_PATH"`
	Out      string
	Save     string
	Encoding string `env:"ENCODING" envDefault:"utf-8"`
	Number   int
	Count    int
	Options  compiler.Options
	OTel     otel.Config

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
	fs.StringVar(&cfg.Out, "out", "", "write triggers to this file instead of stdout")
	fs.StringVar(&cfg.Save, "save", "", "also write the loaded project as JSON to this file")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "output encoding (utf-8, windows-1252, windows-949)")
	fs.IntVar(&cfg.Number, "number", 0, "override the obstacle number")
	fs.IntVar(&cfg.Count, "count", 0, "compile only this count")
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

// Run loads the configured input and writes its trigger text.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCompile, cfg.OTel, func(ctx context.Context) error {
		return run(ctx, cfg, out, log.New(errOut, "", 0))
	})
}

func run(ctx context.Context, cfg Config, out io.Writer, logger *log.Logger) error {
	enc, err := textenc.Lookup(cfg.Encoding)
	if err != nil {
		return err
	}
	table := refdata.Default()

	p, err := load(ctx, cfg, table)
	if err != nil {
		return err
	}
	if cfg.Save != "" {
		if err := p.Save(cfg.Save); err != nil {
			return err
		}
		logger.Printf("saved project to %s", cfg.Save)
	}

	blocks, err := compileBlocks(ctx, cfg, p, table)
	if err != nil {
		return err
	}
	data, err := textenc.Encode(compiler.Join(blocks)+"\n", enc)
	if err != nil {
		return err
	}
	if cfg.Out != "" {
		if err := os.WriteFile(cfg.Out, data, 0o644); err != nil {
			return fmt.Errorf("write triggers: %w", err)
		}
	} else if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write triggers: %w", err)
	}
	logger.Printf("compiled obstacle %d: %d counts, %d triggers", p.Number, p.Obstacle.NumCounts(), len(blocks))
	return nil
}

func load(ctx context.Context, cfg Config, table *refdata.Table) (_ *project.Project, err error) {
	ctx, span := otel.Tracer().Start(ctx, "obstacle.load", trace.WithAttributes(
		attribute.String("obstacle.input", cfg.Input),
	))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(cfg.Input) == "" {
		return nil, fmt.Errorf("input is required (-in or first argument)")
	}
	p, err := input.Load(ctx, input.Source{Path: cfg.Input, DBPath: cfg.DBPath}, table)
	if err != nil {
		return nil, err
	}
	p.Options = cfg.overrides.Apply(p.Options)
	if cfg.Number > 0 {
		p.Number = cfg.Number
	}
	span.SetAttributes(
		attribute.Int("obstacle.number", p.Number),
		attribute.Int("obstacle.counts", p.Obstacle.NumCounts()),
		attribute.Int("obstacle.locations", len(p.Rects)),
	)
	return p, nil
}

func compileBlocks(ctx context.Context, cfg Config, p *project.Project, table *refdata.Table) (blocks []string, err error) {
	_, span := otel.Tracer().Start(ctx, "obstacle.compile", trace.WithAttributes(
		attribute.Int("obstacle.number", p.Number),
	))
	defer func() { endSpan(span, err) }()

	if cfg.Count > 0 {
		var c *compiler.Compiler
		if c, err = compiler.New(table, p.Options); err != nil {
			return nil, err
		}
		blocks, err = c.CompileCount(p.Locations(), p.Obstacle, p.Number, cfg.Count)
	} else {
		blocks, err = p.Blocks(table)
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("obstacle.triggers", len(blocks)))
	return blocks, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
