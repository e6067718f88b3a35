package obstacle

import (
	"slices"

	"github.com/louisbranch/obstacle-studio/internal/location"
)

// The Try and Place methods apply the editing rules of the canvas. They
// return false and leave the store untouched when the edit is not allowed;
// rejected edits are routine, so they are not errors.

// PlaceExplosion adds an explosion unless the same kind already explodes at
// pos of loc on count.
func (s *Store) PlaceExplosion(count, player, kind, loc int, pos location.Point) bool {
	if count < 1 || count > s.NumCounts() || s.FindExplosionAt(count, kind, loc, pos) {
		return false
	}
	s.AddExplosion(count, player, kind, loc, pos)
	return true
}

// TryPlaceWall places a wall unless one is already standing at pos of loc
// on count or another wall event sits on that count.
func (s *Store) TryPlaceWall(count, player, unit, loc int, pos location.Point) bool {
	if count < 1 || count > s.NumCounts() || s.hasWallEvent(count, loc, pos) {
		return false
	}
	if op, _ := s.SearchWall(count, loc, pos); op == WallPlace {
		return false
	}
	s.PlaceWall(count, player, unit, loc, pos)
	return true
}

// TryRemoveWall removes or kills the wall standing at pos of loc on count.
// The removed unit is the one the wall was placed with.
func (s *Store) TryRemoveWall(count int, op WallOp, loc int, pos location.Point) bool {
	if op != WallRemove && op != WallKill {
		return false
	}
	if count < 1 || count > s.NumCounts() || s.hasWallEvent(count, loc, pos) {
		return false
	}
	prev, placed := s.SearchWall(count, loc, pos)
	if prev != WallPlace {
		return false
	}
	i := slices.IndexFunc(s.walls, func(w Wall) bool {
		return w.Op == WallPlace && w.at(placed, loc, pos)
	})
	s.RemoveWall(count, s.walls[i].Unit, op, loc, pos)
	return true
}

// DeleteWallAt deletes the wall standing at pos of loc on count together
// with its removal.
func (s *Store) DeleteWallAt(count, loc int, pos location.Point) bool {
	if count < 1 || count > s.NumCounts() {
		return false
	}
	placed := -1
	if slices.ContainsFunc(s.walls, func(w Wall) bool { return w.Op == WallPlace && w.at(count, loc, pos) }) {
		placed = count
	} else if op, c := s.SearchWall(count, loc, pos); op == WallPlace {
		placed = c
	}
	if placed < 0 {
		return false
	}
	s.DeleteWall(placed, loc, pos)
	return true
}

// TryAddTeleport links locFrom to locTo on count. Each location takes part
// in at most one teleport per count.
func (s *Store) TryAddTeleport(count, playerFrom, playerTo, imageFrom, imageTo, locFrom, locTo int) bool {
	if count < 1 || count > s.NumCounts() || locFrom == locTo {
		return false
	}
	busy := slices.ContainsFunc(s.teleports, func(t Teleport) bool {
		if t.Count != count {
			return false
		}
		return t.LocationFrom == locFrom || t.LocationTo == locFrom ||
			t.LocationFrom == locTo || t.LocationTo == locTo
	})
	if busy {
		return false
	}
	s.AddTeleport(count, playerFrom, playerTo, imageFrom, imageTo, locFrom, locTo)
	return true
}

func (s *Store) hasWallEvent(count, loc int, pos location.Point) bool {
	return slices.ContainsFunc(s.walls, func(w Wall) bool { return w.at(count, loc, pos) })
}
