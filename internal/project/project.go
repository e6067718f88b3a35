// Package project reads and writes obstacle project files: the map's
// locations and naming, one obstacle, its number and trigger options.
package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/louisbranch/obstacle-studio/internal/compiler"
	"github.com/louisbranch/obstacle-studio/internal/location"
	"github.com/louisbranch/obstacle-studio/internal/obstacle"
	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
)

// Project is an editable obstacle with the locations it runs on.
type Project struct {
	Name     string
	Rects    []location.Rect
	Naming   location.NamingPolicy
	Obstacle *obstacle.Store
	Number   int
	Options  compiler.Options
}

// New returns an empty project: no locations, obstacle 1, default options.
func New(timing obstacle.Timing) *Project {
	return &Project{
		Naming:   location.NamingPolicy{Prefix: "ob"},
		Obstacle: obstacle.New(timing),
		Number:   1,
		Options:  compiler.DefaultOptions(),
	}
}

// file is the JSON envelope.
type file struct {
	Name       string           `json:"Name,omitempty"`
	Locations  []location.Rect  `json:"Locations"`
	Prefix     string           `json:"Location prefix"`
	Convention int              `json:"Location numbering convention"`
	IDOffset   int              `json:"Location ID offset"`
	Obstacle   obstacle.Record  `json:"Obstacle"`
	Number     int              `json:"Obstacle number"`
	Options    compiler.Options `json:"Trigger options"`
}

// Locations returns the named, numbered locations of the project.
func (p *Project) Locations() []location.Location {
	return p.Naming.Locations(p.Rects)
}

// AddLocation appends a location and returns its number.
func (p *Project) AddLocation(r location.Rect) (int, error) {
	if len(p.Rects) >= location.MaxLocations {
		return 0, apperrors.WithMetadata(apperrors.CodeLocationLimit, "location limit reached", map[string]string{
			"Limit": strconv.Itoa(location.MaxLocations),
		})
	}
	p.Rects = append(p.Rects, r)
	return len(p.Rects), nil
}

// DeleteLocation removes location num and every event that uses it.
func (p *Project) DeleteLocation(num int) error {
	if err := p.checkLocation(num); err != nil {
		return err
	}
	p.Rects = append(p.Rects[:num-1], p.Rects[num:]...)
	p.Obstacle.DeleteLocation(num)
	return nil
}

// ResizeLocation replaces the rectangle of location num. Explosions keep
// their map position, so they move against the new top-left corner.
func (p *Project) ResizeLocation(num int, r location.Rect) error {
	if err := p.checkLocation(num); err != nil {
		return err
	}
	old := p.Rects[num-1]
	p.Rects[num-1] = r
	p.Obstacle.ShiftEvents(num, location.Point{X: old.X - r.X, Y: old.Y - r.Y})
	return nil
}

func (p *Project) checkLocation(num int) error {
	if num >= 1 && num <= len(p.Rects) {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeLocationOutOfRange, "location out of range", map[string]string{
		"Location":  strconv.Itoa(num),
		"Locations": strconv.Itoa(len(p.Rects)),
	})
}

// Validate checks the project against table: location limit, row
// references, kinds and trigger options.
func (p *Project) Validate(table *refdata.Table) error {
	if len(p.Rects) > location.MaxLocations {
		return apperrors.WithMetadata(apperrors.CodeLocationLimit, "too many locations", map[string]string{
			"Limit": strconv.Itoa(location.MaxLocations),
		})
	}
	if err := p.Obstacle.Check(len(p.Rects)); err != nil {
		return err
	}
	var kinds []int
	for _, e := range p.Obstacle.Explosions() {
		kinds = append(kinds, e.Kind)
	}
	for _, w := range p.Obstacle.Walls() {
		kinds = append(kinds, w.Unit)
	}
	for _, t := range p.Obstacle.Teleports() {
		kinds = append(kinds, t.ImageFrom, t.ImageTo)
	}
	for _, id := range kinds {
		if _, ok := table.Kind(id); !ok {
			return apperrors.WithMetadata(apperrors.CodeUnknownKind, "unknown kind", map[string]string{
				"Kind": strconv.Itoa(id),
			})
		}
	}
	return p.Options.Validate(table)
}

// Compile renders the project's triggers.
func (p *Project) Compile(table *refdata.Table) (string, error) {
	blocks, err := p.Blocks(table)
	if err != nil {
		return "", err
	}
	return compiler.Join(blocks), nil
}

// Blocks renders the project's trigger blocks in output order.
func (p *Project) Blocks(table *refdata.Table) ([]string, error) {
	c, err := compiler.New(table, p.Options)
	if err != nil {
		return nil, err
	}
	return c.Blocks(p.Locations(), p.Obstacle, p.Number)
}

// Encode writes p as indented JSON.
func (p *Project) Encode(w io.Writer) error {
	f := file{
		Name:       p.Name,
		Locations:  p.Rects,
		Prefix:     p.Naming.Prefix,
		Convention: int(p.Naming.Convention),
		IDOffset:   p.Naming.IDOffset,
		Obstacle:   p.Obstacle.Serialize(),
		Number:     p.Number,
		Options:    p.Options,
	}
	if f.Locations == nil {
		f.Locations = []location.Rect{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	return nil
}

// Decode reads a project. Missing trigger options keep their defaults.
func Decode(r io.Reader) (*Project, error) {
	f := file{Number: 1, Prefix: "ob", Options: compiler.DefaultOptions()}
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	if f.Convention < int(location.Numeric) || f.Convention > int(location.Upper) {
		return nil, fmt.Errorf("decode project: unknown numbering convention %d", f.Convention)
	}
	s := obstacle.New(obstacle.Waits)
	if err := s.Load(f.Obstacle); err != nil {
		return nil, fmt.Errorf("load obstacle: %w", err)
	}
	p := &Project{
		Name:  f.Name,
		Rects: f.Locations,
		Naming: location.NamingPolicy{
			Prefix:     f.Prefix,
			Convention: location.Convention(f.Convention),
			IDOffset:   f.IDOffset,
		},
		Obstacle: s,
		Number:   f.Number,
		Options:  f.Options,
	}
	if err := p.Obstacle.Check(len(p.Rects)); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads the project file at path.
func Load(path string) (*Project, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Save writes p to path, replacing any existing file.
func (p *Project) Save(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	if err := p.Encode(fh); err != nil {
		fh.Close()
		return err
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close project: %w", err)
	}
	return nil
}
