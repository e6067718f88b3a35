package obstacle

import "slices"

// AddTeleport appends a teleport link from locFrom to locTo on count.
func (s *Store) AddTeleport(count, playerFrom, playerTo, imageFrom, imageTo, locFrom, locTo int) {
	s.teleports = append(s.teleports, Teleport{
		Count:        count,
		PlayerFrom:   playerFrom,
		PlayerTo:     playerTo,
		ImageFrom:    imageFrom,
		ImageTo:      imageTo,
		LocationFrom: locFrom,
		LocationTo:   locTo,
	})
}

// DeleteTeleport removes the links on count with either endpoint at loc.
func (s *Store) DeleteTeleport(count, loc int) {
	s.teleports = slices.DeleteFunc(s.teleports, func(t Teleport) bool {
		return t.Count == count && (t.LocationFrom == loc || t.LocationTo == loc)
	})
}
