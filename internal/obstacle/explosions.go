package obstacle

import (
	"slices"

	"github.com/louisbranch/obstacle-studio/internal/location"
)

// FindExplosion reports whether kind appears anywhere in the obstacle.
func (s *Store) FindExplosion(kind int) bool {
	return slices.ContainsFunc(s.explosions, func(e Explosion) bool { return e.Kind == kind })
}

// FindExplosionInCount reports whether kind appears on count.
func (s *Store) FindExplosionInCount(count, kind int) bool {
	return slices.ContainsFunc(s.explosions, func(e Explosion) bool {
		return e.Count == count && e.Kind == kind
	})
}

// FindExplosionAt reports whether kind is placed at pos of loc on count.
func (s *Store) FindExplosionAt(count, kind, loc int, pos location.Point) bool {
	return slices.ContainsFunc(s.explosions, func(e Explosion) bool {
		return e.Count == count && e.Kind == kind && e.Location == loc && e.Pos == pos
	})
}

// AddExplosion appends an explosion row. It does not check for duplicates;
// see PlaceExplosion.
func (s *Store) AddExplosion(count, player, kind, loc int, pos location.Point) {
	s.explosions = append(s.explosions, Explosion{
		Count:    count,
		Player:   player,
		Kind:     kind,
		Location: loc,
		Pos:      pos,
	})
}

// DeleteExplosion removes matching explosion rows and any audio cue left
// without an explosion.
func (s *Store) DeleteExplosion(count, kind, loc int, pos location.Point) {
	s.explosions = slices.DeleteFunc(s.explosions, func(e Explosion) bool {
		return e.Count == count && e.Kind == kind && e.Location == loc && e.Pos == pos
	})
	s.DeleteAudio()
}
