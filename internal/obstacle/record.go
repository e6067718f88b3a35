package obstacle

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/louisbranch/obstacle-studio/internal/location"
	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
)

// Column names of each relation, in row order.
var (
	explosionColumns = []string{"Count", "Player", "Explosion", "Location", "x", "y"}
	wallColumns      = []string{"Count", "Player", "Unit", "Add/Remove", "Location", "x", "y"}
	teleportColumns  = []string{"Count", "Player from", "Player to", "Image from", "Image to", "Location from", "Location to"}
	audioColumns     = []string{"Count", "Explosion", "DC Unit"}
)

// Row is one persisted relation row in column order.
type Row []float64

// Record is the persisted form of a store. Relation maps are keyed by the
// decimal row index.
type Record struct {
	UseFrames  bool           `json:"Use frames"`
	Delays     []int          `json:"Delays"`
	Explosions map[string]Row `json:"Explosions"`
	Walls      map[string]Row `json:"Walls"`
	Teleports  map[string]Row `json:"Teleports"`
	Audio      map[string]Row `json:"Audio"`
}

type rawRecord struct {
	UseFrames  bool                       `json:"Use frames"`
	Delays     []int                      `json:"Delays"`
	Explosions map[string]json.RawMessage `json:"Explosions"`
	Walls      map[string]json.RawMessage `json:"Walls"`
	Teleports  map[string]json.RawMessage `json:"Teleports"`
	Audio      map[string]json.RawMessage `json:"Audio"`
}

// UnmarshalJSON accepts rows written as arrays or as objects keyed by
// column name.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Record{UseFrames: raw.UseFrames, Delays: raw.Delays}
	var err error
	if out.Explosions, err = decodeRows("Explosions", raw.Explosions, explosionColumns); err != nil {
		return err
	}
	if out.Walls, err = decodeRows("Walls", raw.Walls, wallColumns); err != nil {
		return err
	}
	if out.Teleports, err = decodeRows("Teleports", raw.Teleports, teleportColumns); err != nil {
		return err
	}
	if out.Audio, err = decodeRows("Audio", raw.Audio, audioColumns); err != nil {
		return err
	}
	*r = out
	return nil
}

func decodeRows(relation string, raw map[string]json.RawMessage, columns []string) (map[string]Row, error) {
	rows := make(map[string]Row, len(raw))
	for key, msg := range raw {
		row, err := decodeRow(msg, columns)
		if err != nil {
			return nil, fmt.Errorf("%s row %s: %w", relation, key, err)
		}
		rows[key] = row
	}
	return rows, nil
}

func decodeRow(msg json.RawMessage, columns []string) (Row, error) {
	var arr []float64
	if err := json.Unmarshal(msg, &arr); err == nil {
		if len(arr) != len(columns) {
			return nil, fmt.Errorf("got %d columns, want %d", len(arr), len(columns))
		}
		return arr, nil
	}
	var obj map[string]float64
	if err := json.Unmarshal(msg, &obj); err != nil {
		return nil, fmt.Errorf("row must be an array or an object of numbers")
	}
	row := make(Row, len(columns))
	for i, col := range columns {
		v, ok := obj[col]
		if !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
		row[i] = v
	}
	return row, nil
}

// int returns column i as an integer.
func (r Row) int(i int) int {
	return int(math.Round(r[i]))
}

// Serialize returns the persisted form of the store.
func (s *Store) Serialize() Record {
	rec := Record{
		UseFrames:  s.timing == Frames,
		Delays:     s.Delays(),
		Explosions: make(map[string]Row, len(s.explosions)),
		Walls:      make(map[string]Row, len(s.walls)),
		Teleports:  make(map[string]Row, len(s.teleports)),
		Audio:      make(map[string]Row, len(s.audio)),
	}
	for i, e := range s.explosions {
		rec.Explosions[strconv.Itoa(i)] = Row{float64(e.Count), float64(e.Player), float64(e.Kind), float64(e.Location), e.Pos.X, e.Pos.Y}
	}
	for i, w := range s.walls {
		rec.Walls[strconv.Itoa(i)] = Row{float64(w.Count), float64(w.Player), float64(w.Unit), float64(w.Op), float64(w.Location), w.Pos.X, w.Pos.Y}
	}
	for i, t := range s.teleports {
		rec.Teleports[strconv.Itoa(i)] = Row{
			float64(t.Count), float64(t.PlayerFrom), float64(t.PlayerTo),
			float64(t.ImageFrom), float64(t.ImageTo), float64(t.LocationFrom), float64(t.LocationTo),
		}
	}
	for i, a := range s.audio {
		rec.Audio[strconv.Itoa(i)] = Row{float64(a.Count), float64(a.Kind), float64(a.DCUnit)}
	}
	return rec
}

// Load replaces the store's state with rec. Rows are restored in index
// order and delays are normalized as SetDelay does. The store is left
// unchanged when rec is inconsistent.
func (s *Store) Load(rec Record) error {
	timing := Waits
	if rec.UseFrames {
		timing = Frames
	}
	next := &Store{timing: timing, delays: append([]int(nil), rec.Delays...)}
	if len(next.delays) == 0 {
		next.delays = []int{defaultDelay(timing)}
	}
	for i, d := range next.delays {
		next.delays[i] = next.normalizeDelay(d)
	}
	for _, r := range sortedRows(rec.Explosions) {
		next.explosions = append(next.explosions, Explosion{
			Count:    r.int(0),
			Player:   r.int(1),
			Kind:     r.int(2),
			Location: r.int(3),
			Pos:      location.Point{X: r[4], Y: r[5]},
		})
	}
	for _, r := range sortedRows(rec.Walls) {
		next.walls = append(next.walls, Wall{
			Count:    r.int(0),
			Player:   r.int(1),
			Unit:     r.int(2),
			Op:       WallOp(r.int(3)),
			Location: r.int(4),
			Pos:      location.Point{X: r[5], Y: r[6]},
		})
	}
	for _, r := range sortedRows(rec.Teleports) {
		next.teleports = append(next.teleports, Teleport{
			Count:        r.int(0),
			PlayerFrom:   r.int(1),
			PlayerTo:     r.int(2),
			ImageFrom:    r.int(3),
			ImageTo:      r.int(4),
			LocationFrom: r.int(5),
			LocationTo:   r.int(6),
		})
	}
	for _, r := range sortedRows(rec.Audio) {
		next.audio = append(next.audio, Audio{Count: r.int(0), Kind: r.int(1), DCUnit: r.int(2)})
	}
	if err := next.checkRows(); err != nil {
		return err
	}
	*s = *next
	return nil
}

// sortedRows orders rows by numeric key, then by key text for keys that
// are not numbers.
func sortedRows(rows map[string]Row) []Row {
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	out := make([]Row, len(keys))
	for i, k := range keys {
		out[i] = rows[k]
	}
	return out
}

// checkRows verifies counts and wall ops without knowing the locations.
func (s *Store) checkRows() error {
	n := s.NumCounts()
	count := func(c int) error {
		if c < 1 || c > n {
			return s.checkCount(c, n)
		}
		return nil
	}
	for _, e := range s.explosions {
		if err := count(e.Count); err != nil {
			return err
		}
	}
	for _, w := range s.walls {
		if err := count(w.Count); err != nil {
			return err
		}
		if w.Op < WallRemove || w.Op > WallPlace {
			return invalidObstacle(fmt.Sprintf("wall op %d is not 0, 1 or 2", w.Op))
		}
	}
	for _, t := range s.teleports {
		if err := count(t.Count); err != nil {
			return err
		}
	}
	for _, a := range s.audio {
		if err := count(a.Count); err != nil {
			return err
		}
		if !s.FindExplosionInCount(a.Count, a.Kind) {
			return invalidObstacle(fmt.Sprintf("audio on count %d has no explosion of kind %d", a.Count, a.Kind))
		}
	}
	return nil
}

// Check verifies that every row references a count in [1, N] and a
// location in [1, numLocations].
func (s *Store) Check(numLocations int) error {
	if err := s.checkRows(); err != nil {
		return err
	}
	loc := func(l int) error {
		if l >= 1 && l <= numLocations {
			return nil
		}
		return apperrors.WithMetadata(apperrors.CodeLocationOutOfRange, "location out of range", map[string]string{
			"Location":  strconv.Itoa(l),
			"Locations": strconv.Itoa(numLocations),
		})
	}
	for _, e := range s.explosions {
		if err := loc(e.Location); err != nil {
			return err
		}
	}
	for _, w := range s.walls {
		if err := loc(w.Location); err != nil {
			return err
		}
	}
	for _, t := range s.teleports {
		if err := loc(t.LocationFrom); err != nil {
			return err
		}
		if err := loc(t.LocationTo); err != nil {
			return err
		}
	}
	return nil
}

func invalidObstacle(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidObstacle, "invalid obstacle: "+reason, map[string]string{
		"Reason": reason,
	})
}
