package compiler

import (
	"strconv"
	"strings"

	"github.com/louisbranch/obstacle-studio/internal/location"
	"github.com/louisbranch/obstacle-studio/internal/obstacle"
	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
)

// Compiler renders obstacles with one set of options.
type Compiler struct {
	table *refdata.Table
	opts  Options
}

// New validates opts against table and returns a compiler.
func New(table *refdata.Table, opts Options) (*Compiler, error) {
	if err := opts.Validate(table); err != nil {
		return nil, err
	}
	return &Compiler{table: table, opts: opts}, nil
}

// Compile returns the trigger text of obstacle number obNum: every count's
// blocks in count order, separated by blank lines.
func (c *Compiler) Compile(locs []location.Location, s *obstacle.Store, obNum int) (string, error) {
	blocks, err := c.Blocks(locs, s, obNum)
	if err != nil {
		return "", err
	}
	return Join(blocks), nil
}

// Blocks returns every trigger block of the obstacle in output order.
// Nothing is rendered unless every row references a location, kind and
// unit that exists.
func (c *Compiler) Blocks(locs []location.Location, s *obstacle.Store, obNum int) ([]string, error) {
	if err := c.check(locs, s); err != nil {
		return nil, err
	}
	var blocks []string
	for count := 1; count <= s.NumCounts(); count++ {
		blocks = append(blocks, c.countBlocks(locs, s, obNum, count)...)
	}
	return blocks, nil
}

// CompileCount returns the blocks of a single count.
func (c *Compiler) CompileCount(locs []location.Location, s *obstacle.Store, obNum, count int) ([]string, error) {
	if err := c.check(locs, s); err != nil {
		return nil, err
	}
	if _, err := s.Delay(count); err != nil {
		return nil, err
	}
	return c.countBlocks(locs, s, obNum, count), nil
}

// check validates every reference the renderer follows. After it passes, a
// failed lookup is a bug and panics.
func (c *Compiler) check(locs []location.Location, s *obstacle.Store) error {
	if len(locs) > location.MaxLocations {
		return apperrors.WithMetadata(apperrors.CodeLocationLimit, "too many locations", map[string]string{
			"Limit": strconv.Itoa(location.MaxLocations),
		})
	}
	if err := s.Check(len(locs)); err != nil {
		return err
	}
	for _, e := range s.Explosions() {
		if err := c.checkKind(e.Kind); err != nil {
			return err
		}
	}
	for _, w := range s.Walls() {
		if err := c.checkKind(w.Unit); err != nil {
			return err
		}
	}
	for _, t := range s.Teleports() {
		if err := c.checkKind(t.ImageFrom); err != nil {
			return err
		}
		if err := c.checkKind(t.ImageTo); err != nil {
			return err
		}
	}
	if s.Timing() != obstacle.Frames {
		return nil
	}
	for _, a := range s.Audio() {
		if err := c.checkKind(a.Kind); err != nil {
			return err
		}
		if k := c.table.MustKind(a.Kind); !k.HasAudio() {
			return apperrors.WithMetadata(apperrors.CodeMissingAudioTime, "kind has no audio timing", map[string]string{
				"Kind": k.Name,
			})
		}
		if _, ok := c.table.Unit(a.DCUnit); !ok {
			return apperrors.WithMetadata(apperrors.CodeUnknownUnit, "unknown audio unit", map[string]string{
				"Unit": strconv.Itoa(a.DCUnit),
			})
		}
	}
	return nil
}

func (c *Compiler) checkKind(id int) error {
	if _, ok := c.table.Kind(id); ok {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeUnknownKind, "unknown kind", map[string]string{
		"Kind": strconv.Itoa(id),
	})
}

// Join concatenates blocks into script text.
func Join(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}
