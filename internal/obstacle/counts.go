package obstacle

import "slices"

// InsertCount inserts an empty count at position c (1..N+1). Rows at counts
// >= c move up by one. The new count's delay copies the delay that was at
// c, or the last delay when appending.
func (s *Store) InsertCount(c int) error {
	n := s.NumCounts()
	if err := s.checkCount(c, n+1); err != nil {
		return err
	}
	delay := s.delays[n-1]
	if c <= n {
		delay = s.delays[c-1]
	}
	s.delays = slices.Insert(s.delays, c-1, delay)
	s.shiftCounts(c, 1)
	return nil
}

// DeleteCount drops every row at count c and moves later rows down by one.
// The last remaining count is emptied but never removed.
func (s *Store) DeleteCount(c int) error {
	if err := s.checkCount(c, s.NumCounts()); err != nil {
		return err
	}
	s.explosions = slices.DeleteFunc(s.explosions, func(e Explosion) bool { return e.Count == c })
	s.walls = slices.DeleteFunc(s.walls, func(w Wall) bool { return w.Count == c })
	s.teleports = slices.DeleteFunc(s.teleports, func(t Teleport) bool { return t.Count == c })
	s.audio = slices.DeleteFunc(s.audio, func(a Audio) bool { return a.Count == c })
	if s.NumCounts() > 1 {
		s.delays = slices.Delete(s.delays, c-1, c)
	}
	s.shiftCounts(c+1, -1)
	return nil
}

// shiftCounts adds shift to every count >= lower.
func (s *Store) shiftCounts(lower, shift int) {
	for i := range s.explosions {
		if s.explosions[i].Count >= lower {
			s.explosions[i].Count += shift
		}
	}
	for i := range s.walls {
		if s.walls[i].Count >= lower {
			s.walls[i].Count += shift
		}
	}
	for i := range s.teleports {
		if s.teleports[i].Count >= lower {
			s.teleports[i].Count += shift
		}
	}
	for i := range s.audio {
		if s.audio[i].Count >= lower {
			s.audio[i].Count += shift
		}
	}
}
