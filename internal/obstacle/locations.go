package obstacle

import (
	"slices"

	"github.com/louisbranch/obstacle-studio/internal/location"
)

// DeleteLocation drops every row at location loc, including teleports with
// either endpoint there, purges orphaned audio, and renumbers locations
// above loc down by one.
func (s *Store) DeleteLocation(loc int) {
	s.explosions = slices.DeleteFunc(s.explosions, func(e Explosion) bool { return e.Location == loc })
	s.walls = slices.DeleteFunc(s.walls, func(w Wall) bool { return w.Location == loc })
	s.teleports = slices.DeleteFunc(s.teleports, func(t Teleport) bool {
		return t.LocationFrom == loc || t.LocationTo == loc
	})
	s.DeleteAudio()

	for i := range s.explosions {
		if s.explosions[i].Location > loc {
			s.explosions[i].Location--
		}
	}
	for i := range s.walls {
		if s.walls[i].Location > loc {
			s.walls[i].Location--
		}
	}
	for i := range s.teleports {
		if s.teleports[i].LocationFrom > loc {
			s.teleports[i].LocationFrom--
		}
		if s.teleports[i].LocationTo > loc {
			s.teleports[i].LocationTo--
		}
	}
}

// ShiftEvents translates every explosion at loc by d. Used when a location
// is resized and its center moves.
func (s *Store) ShiftEvents(loc int, d location.Point) {
	for i := range s.explosions {
		if s.explosions[i].Location == loc {
			s.explosions[i].Pos = s.explosions[i].Pos.Add(d)
		}
	}
}
