package obstacle

import (
	"fmt"
	"strings"

	"github.com/louisbranch/obstacle-studio/internal/location"
)

// AllPlayers is the player number that maps to "All players" in triggers.
// Wall removals use it since they are not owned by anyone.
const AllPlayers = 9

// Timing is the obstacle's delay discipline.
type Timing int

const (
	// Waits delays each count with a single Wait action, in milliseconds.
	Waits Timing = iota
	// Frames delays each count by a death-counter state machine, in frames.
	Frames
)

// WaitTick is the wait granularity in milliseconds: one game frame on the
// fastest speed.
const WaitTick = 42

// ParseTiming accepts "frames" or "waits".
func ParseTiming(s string) (Timing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "frames", "frame":
		return Frames, nil
	case "waits", "wait":
		return Waits, nil
	default:
		return Waits, fmt.Errorf("unknown timing %q", s)
	}
}

// String returns "frames" or "waits".
func (t Timing) String() string {
	if t == Frames {
		return "frames"
	}
	return "waits"
}

// WallOp is what a wall row does at its position.
type WallOp int

const (
	// NoWallOp is returned by SearchWall when nothing was found.
	NoWallOp WallOp = -1
	// WallRemove removes the wall unit.
	WallRemove WallOp = 0
	// WallKill kills the wall unit.
	WallKill WallOp = 1
	// WallPlace creates the wall unit.
	WallPlace WallOp = 2
)

// Explosion is a momentary effect at a position of a location on one count.
type Explosion struct {
	Count    int
	Player   int
	Kind     int
	Location int
	Pos      location.Point
}

// Wall is a wall placement, kill, or removal row.
type Wall struct {
	Count    int
	Player   int
	Unit     int
	Op       WallOp
	Location int
	Pos      location.Point
}

// Teleport moves players from one location to another on a count.
type Teleport struct {
	Count        int
	PlayerFrom   int
	PlayerTo     int
	ImageFrom    int
	ImageTo      int
	LocationFrom int
	LocationTo   int
}

// Audio maps an explosion kind on a count to a death-count unit that plays
// its sound. DCUnit indexes the sorted unit list of the reference table.
type Audio struct {
	Count  int
	Kind   int
	DCUnit int
}
