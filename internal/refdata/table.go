package refdata

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ScannerSweep is the placeholder unit that carries sprite kinds.
const ScannerSweep = "Scanner Sweep"

//go:embed data/kinds.yaml
var embeddedTable []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the embedded table. It panics if the embedded data is
// invalid, which can only happen in a broken build.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(embeddedTable)
		if err != nil {
			panic(fmt.Sprintf("refdata: embedded table: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

type tableFile struct {
	Kinds []Kind   `yaml:"kinds"`
	Units []string `yaml:"units"`
}

// Table is an immutable set of kinds and death-count units.
type Table struct {
	kinds     map[int]Kind
	byName    map[string]int
	units     []string
	unitIndex map[string]int
}

// Parse decodes a YAML table and checks it for duplicate ids and names.
func Parse(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}

	t := &Table{
		kinds:     make(map[int]Kind, len(file.Kinds)),
		byName:    make(map[string]int, len(file.Kinds)),
		unitIndex: make(map[string]int, len(file.Units)),
	}
	for _, k := range file.Kinds {
		k.Name = strings.TrimSpace(k.Name)
		if k.Name == "" {
			return nil, fmt.Errorf("kind %d: name is required", k.ID)
		}
		if k.Class != ClassUnit && k.Class != ClassSprite {
			return nil, fmt.Errorf("kind %q: class is required", k.Name)
		}
		if k.AudioFrames < 0 || k.AudioFrames > 2 {
			return nil, fmt.Errorf("kind %q: audio must be 0, 1 or 2", k.Name)
		}
		if _, dup := t.kinds[k.ID]; dup {
			return nil, fmt.Errorf("kind %q: duplicate id %d", k.Name, k.ID)
		}
		if _, dup := t.byName[k.Name]; dup {
			return nil, fmt.Errorf("kind %q: duplicate name", k.Name)
		}
		t.kinds[k.ID] = k
		t.byName[k.Name] = k.ID
	}

	units := make([]string, 0, len(file.Units))
	for _, u := range file.Units {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := t.unitIndex[u]; dup {
			return nil, fmt.Errorf("unit %q: duplicate", u)
		}
		t.unitIndex[u] = -1
		units = append(units, u)
	}
	sort.Strings(units)
	for i, u := range units {
		t.unitIndex[u] = i
	}
	t.units = units
	return t, nil
}

// Kind returns the kind with the given id.
func (t *Table) Kind(id int) (Kind, bool) {
	k, ok := t.kinds[id]
	return k, ok
}

// MustKind returns the kind with the given id and panics when it is
// missing. Callers validate ids first; a miss means the obstacle and the
// table have diverged.
func (t *Table) MustKind(id int) Kind {
	k, ok := t.kinds[id]
	if !ok {
		panic(fmt.Sprintf("refdata: kind %d is not in the table", id))
	}
	return k
}

// KindByName looks a kind up by its display name.
func (t *Table) KindByName(name string) (Kind, bool) {
	id, ok := t.byName[strings.TrimSpace(name)]
	if !ok {
		return Kind{}, false
	}
	return t.kinds[id], true
}

// Kinds returns every kind ordered by id.
func (t *Table) Kinds() []Kind {
	out := make([]Kind, 0, len(t.kinds))
	for _, k := range t.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Unit returns the death-count unit at index in the sorted unit list.
func (t *Table) Unit(index int) (string, bool) {
	if index < 0 || index >= len(t.units) {
		return "", false
	}
	return t.units[index], true
}

// UnitIndex returns the position of name in the sorted unit list.
func (t *Table) UnitIndex(name string) (int, bool) {
	i, ok := t.unitIndex[strings.TrimSpace(name)]
	return i, ok
}

// Units returns a copy of the sorted unit list.
func (t *Table) Units() []string {
	return append([]string(nil), t.units...)
}
