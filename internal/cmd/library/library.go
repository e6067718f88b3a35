// Package library parses library command flags and manages the stored
// obstacle projects.
package library

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/louisbranch/obstacle-studio/internal/cmd/input"
	entrypoint "github.com/louisbranch/obstacle-studio/internal/platform/cmd"
	"github.com/louisbranch/obstacle-studio/internal/platform/id"
	"github.com/louisbranch/obstacle-studio/internal/platform/otel"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
	"github.com/louisbranch/obstacle-studio/internal/storage"
	"github.com/louisbranch/obstacle-studio/internal/storage/sqlite"
)

// Subcommands accepted after the flags.
const (
	CommandList   = "list"
	CommandImport = "import"
	CommandExport = "export"
	CommandDelete = "delete"
)

// Config holds library command configuration.
type Config struct {
	DBPath  string `env:"DB_PATH" envDefault:"obstacles.db"`
	ID      string
	Out     string
	Command string
	Args    []string
	OTel    otel.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "obstacle library path")
	fs.StringVar(&cfg.ID, "id", "", "ID to store an imported project under (default: generated)")
	fs.StringVar(&cfg.Out, "out", "", "write exported project to this file instead of stdout")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, fmt.Errorf("command is required (list, import, export, delete)")
	}
	cfg.Command = rest[0]
	cfg.Args = rest[1:]
	return cfg, nil
}

// Run executes one library command against the configured database.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceLibrary, cfg.OTel, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open library: %w", err)
		}
		defer store.Close()

		cmd := command{store: store, cfg: cfg, out: out, logger: log.New(errOut, "", 0)}
		switch cfg.Command {
		case CommandList:
			return cmd.list(ctx)
		case CommandImport:
			return cmd.importProject(ctx)
		case CommandExport:
			return cmd.export(ctx)
		case CommandDelete:
			return cmd.delete(ctx)
		default:
			return fmt.Errorf("unknown command %q (valid commands: list, import, export, delete)", cfg.Command)
		}
	})
}

type command struct {
	store  storage.ProjectStore
	cfg    Config
	out    io.Writer
	logger *log.Logger
}

func (c command) arg(name string) (string, error) {
	if len(c.cfg.Args) != 1 || strings.TrimSpace(c.cfg.Args[0]) == "" {
		return "", fmt.Errorf("%s takes exactly one %s", c.cfg.Command, name)
	}
	return c.cfg.Args[0], nil
}

func (c command) list(ctx context.Context) error {
	summaries, err := c.store.ListProjects(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tOBSTACLE\tCOUNTS\tLOCATIONS\tUPDATED")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			s.ID, s.Name, s.Number, s.Counts, s.Locations, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (c command) importProject(ctx context.Context) error {
	path, err := c.arg("file")
	if err != nil {
		return err
	}
	table := refdata.Default()
	p, err := input.Load(ctx, input.Source{Path: path}, table)
	if err != nil {
		return err
	}
	if err := p.Validate(table); err != nil {
		return err
	}
	projectID := strings.TrimSpace(c.cfg.ID)
	if projectID == "" {
		if projectID, err = id.NewID(); err != nil {
			return err
		}
	}
	if err := c.store.PutProject(ctx, projectID, p); err != nil {
		return err
	}
	fmt.Fprintln(c.out, projectID)
	c.logger.Printf("imported %s as %s", path, projectID)
	return nil
}

func (c command) export(ctx context.Context) error {
	projectID, err := c.arg("id")
	if err != nil {
		return err
	}
	p, err := c.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if c.cfg.Out != "" {
		if err := p.Save(c.cfg.Out); err != nil {
			return err
		}
		c.logger.Printf("exported %s to %s", projectID, c.cfg.Out)
		return nil
	}
	return p.Encode(c.out)
}

func (c command) delete(ctx context.Context) error {
	projectID, err := c.arg("id")
	if err != nil {
		return err
	}
	if err := c.store.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	c.logger.Printf("deleted %s", projectID)
	return nil
}
