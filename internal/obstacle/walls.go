package obstacle

import (
	"slices"

	"github.com/louisbranch/obstacle-studio/internal/location"
)

func (w Wall) at(count, loc int, pos location.Point) bool {
	return w.Count == count && w.Location == loc && w.Pos == pos
}

// SearchWall finds the most recent wall event at pos of loc before count,
// scanning count-1, count-2, ... cyclically and ending on count itself. It
// returns the event's op and count, or (NoWallOp, -1) when no event exists.
// Ties within a count go to the first row in storage order.
func (s *Store) SearchWall(count, loc int, pos location.Point) (WallOp, int) {
	n := s.NumCounts()
	for i := 1; i <= n; i++ {
		c := prior(count, i, n)
		for _, w := range s.walls {
			if w.at(c, loc, pos) {
				return w.Op, w.Count
			}
		}
	}
	return NoWallOp, -1
}

// FindWall returns the most recent count before count on which a wall was
// placed at pos of loc, using the same scan as SearchWall. It returns 0 when
// no placement exists.
func (s *Store) FindWall(count, loc int, pos location.Point) int {
	n := s.NumCounts()
	for i := 1; i <= n; i++ {
		c := prior(count, i, n)
		for _, w := range s.walls {
			if w.Op == WallPlace && w.at(c, loc, pos) {
				return c
			}
		}
	}
	return 0
}

// PlaceWall appends a wall placement row.
func (s *Store) PlaceWall(count, player, unit, loc int, pos location.Point) {
	s.walls = append(s.walls, Wall{
		Count:    count,
		Player:   player,
		Unit:     unit,
		Op:       WallPlace,
		Location: loc,
		Pos:      pos,
	})
}

// RemoveWall appends a wall removal row; op is WallRemove or WallKill.
func (s *Store) RemoveWall(count, unit int, op WallOp, loc int, pos location.Point) {
	s.walls = append(s.walls, Wall{
		Count:    count,
		Player:   AllPlayers,
		Unit:     unit,
		Op:       op,
		Location: loc,
		Pos:      pos,
	})
}

// DeleteWall deletes the wall events at pos of loc on count, then deletes
// the first later event at the same position, scanning forward cyclically.
// A placement has at most one removal, so the scan stops there.
func (s *Store) DeleteWall(count, loc int, pos location.Point) {
	s.walls = slices.DeleteFunc(s.walls, func(w Wall) bool { return w.at(count, loc, pos) })

	n := s.NumCounts()
	for i := 1; i < n; i++ {
		c := later(count, i, n)
		match := func(w Wall) bool { return w.at(c, loc, pos) }
		if !slices.ContainsFunc(s.walls, match) {
			continue
		}
		s.walls = slices.DeleteFunc(s.walls, match)
		return
	}
}
