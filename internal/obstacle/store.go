package obstacle

import (
	"strconv"

	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
)

// Store holds an obstacle's events and delays.
type Store struct {
	timing     Timing
	delays     []int
	explosions []Explosion
	walls      []Wall
	teleports  []Teleport
	audio      []Audio
}

// New returns an empty store with one count.
func New(timing Timing) *Store {
	return &Store{
		timing: timing,
		delays: []int{defaultDelay(timing)},
	}
}

// defaultDelay is the delay of a fresh count: one frame, or no wait.
func defaultDelay(timing Timing) int {
	if timing == Frames {
		return 1
	}
	return 0
}

// Timing returns the active timing mode.
func (s *Store) Timing() Timing {
	return s.timing
}

// SetTiming switches the timing mode and converts every delay to the new
// unit.
func (s *Store) SetTiming(timing Timing) {
	if timing == s.timing {
		return
	}
	for i, d := range s.delays {
		if timing == Frames {
			s.delays[i] = 1 + d/WaitTick
		} else {
			s.delays[i] = WaitTick * (d - 1)
		}
	}
	s.timing = timing
}

// NumCounts returns N, the number of counts.
func (s *Store) NumCounts() int {
	return len(s.delays)
}

// Delays returns a copy of the delays, one per count.
func (s *Store) Delays() []int {
	return append([]int(nil), s.delays...)
}

// Delay returns the delay of count c.
func (s *Store) Delay(c int) (int, error) {
	if err := s.checkCount(c, s.NumCounts()); err != nil {
		return 0, err
	}
	return s.delays[c-1], nil
}

// SetDelay sets the delay of count c. Wait delays round up to a multiple of
// WaitTick; frame delays are at least one frame.
func (s *Store) SetDelay(c, delay int) error {
	if err := s.checkCount(c, s.NumCounts()); err != nil {
		return err
	}
	s.delays[c-1] = s.normalizeDelay(delay)
	return nil
}

func (s *Store) normalizeDelay(delay int) int {
	if s.timing == Frames {
		if delay < 1 {
			return 1
		}
		return delay
	}
	if delay <= 0 {
		return 0
	}
	return (delay + WaitTick - 1) / WaitTick * WaitTick
}

// Reset drops every row and leaves a single count.
func (s *Store) Reset() {
	s.delays = []int{defaultDelay(s.timing)}
	s.explosions = nil
	s.walls = nil
	s.teleports = nil
	s.audio = nil
}

// Explosions returns a copy of the explosion rows in storage order.
func (s *Store) Explosions() []Explosion {
	return append([]Explosion(nil), s.explosions...)
}

// Walls returns a copy of the wall rows in storage order.
func (s *Store) Walls() []Wall {
	return append([]Wall(nil), s.walls...)
}

// Teleports returns a copy of the teleport rows in storage order.
func (s *Store) Teleports() []Teleport {
	return append([]Teleport(nil), s.teleports...)
}

// Audio returns a copy of the audio rows in storage order.
func (s *Store) Audio() []Audio {
	return append([]Audio(nil), s.audio...)
}

// CountEvents is every row of one count.
type CountEvents struct {
	Explosions []Explosion
	Walls      []Wall
	Teleports  []Teleport
	Audio      []Audio
}

// Events returns the rows of count c in storage order.
func (s *Store) Events(c int) CountEvents {
	var ev CountEvents
	for _, e := range s.explosions {
		if e.Count == c {
			ev.Explosions = append(ev.Explosions, e)
		}
	}
	for _, w := range s.walls {
		if w.Count == c {
			ev.Walls = append(ev.Walls, w)
		}
	}
	for _, t := range s.teleports {
		if t.Count == c {
			ev.Teleports = append(ev.Teleports, t)
		}
	}
	for _, a := range s.audio {
		if a.Count == c {
			ev.Audio = append(ev.Audio, a)
		}
	}
	return ev
}

func (s *Store) checkCount(c, max int) error {
	if c >= 1 && c <= max {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeCountOutOfRange, "count out of range", map[string]string{
		"Count":  strconv.Itoa(c),
		"Counts": strconv.Itoa(s.NumCounts()),
	})
}
