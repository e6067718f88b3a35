package obstacle

import "slices"

// AddAudio maps kind on count to the death-count unit dcUnit. It does
// nothing unless kind explodes on count, and is idempotent.
func (s *Store) AddAudio(count, kind, dcUnit int) {
	if !s.FindExplosionInCount(count, kind) {
		return
	}
	row := Audio{Count: count, Kind: kind, DCUnit: dcUnit}
	if slices.Contains(s.audio, row) {
		return
	}
	s.audio = append(s.audio, row)
}

// DeleteAudio removes audio rows whose kind no longer explodes on their
// count.
func (s *Store) DeleteAudio() {
	s.audio = slices.DeleteFunc(s.audio, func(a Audio) bool {
		return !s.FindExplosionInCount(a.Count, a.Kind)
	})
}

// DeleteAudioOnCount removes every audio row on count.
func (s *Store) DeleteAudioOnCount(count int) {
	s.audio = slices.DeleteFunc(s.audio, func(a Audio) bool { return a.Count == count })
}
