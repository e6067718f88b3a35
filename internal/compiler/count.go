package compiler

import (
	"sort"

	"github.com/louisbranch/obstacle-studio/internal/location"
	"github.com/louisbranch/obstacle-studio/internal/obstacle"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
	"github.com/louisbranch/obstacle-studio/internal/trigger"
)

// actionLimit is the number of actions a block holds besides its trailing
// Preserve Trigger.
const actionLimit = 63

// Properties slots used by Create Unit with Properties.
const (
	hallucinated = 1
	invincible   = 3
)

// countState is the rendering state of one count.
type countState struct {
	*Compiler
	locs   []location.Location
	obNum  int
	count  int
	frames bool

	actions    []string
	spriteUsed bool
	// lastSprite is the sprite image currently written into Scanner
	// Sweep, or -1.
	lastSprite int
}

func (c *Compiler) countBlocks(locs []location.Location, s *obstacle.Store, obNum, count int) []string {
	st := &countState{
		Compiler:   c,
		locs:       locs,
		obNum:      obNum,
		count:      count,
		frames:     s.Timing() == obstacle.Frames,
		lastSprite: -1,
	}
	ev := s.Events(count)
	delays := s.Delays()

	var blocks []string
	if st.frames {
		blocks = append(blocks, st.audioBlocks(ev.Audio, delays)...)
	}

	st.explosions(ev.Explosions)
	st.walls(ev.Walls)
	st.teleports(ev.Teleports)
	if st.spriteUsed {
		st.add(trigger.RemoveUnit(trigger.Player(obstacle.AllPlayers), refdata.ScannerSweep))
	}

	delay := delays[count-1]
	if st.frames {
		st.add(
			trigger.SetDeaths(c.opts.DCPlayer, c.opts.CountUnit, trigger.SetTo, count%len(delays)+1),
			trigger.SetDeaths(c.opts.DCPlayer, c.opts.DelayUnit, trigger.SetTo, delay),
		)
	} else {
		st.add(trigger.Wait(delay))
	}
	return append(blocks, st.partition()...)
}

func (st *countState) add(actions ...string) {
	st.actions = append(st.actions, actions...)
}

func (st *countState) loc(num int) location.Location {
	return st.locs[num-1]
}

// conditions guards a block on the obstacle counter, the count counter and,
// when delay >= 0, the delay counter.
func (st *countState) conditions(count, delay int) []string {
	o := st.opts
	conds := []string{
		trigger.Deaths(o.DCPlayer, o.ObstacleUnit, trigger.Exactly, st.obNum),
		trigger.Deaths(o.DCPlayer, o.CountUnit, trigger.Exactly, count),
	}
	if delay >= 0 {
		conds = append(conds, trigger.Deaths(o.DCPlayer, o.DelayUnit, trigger.Exactly, delay))
	}
	return conds
}

// audioBlocks renders the sound triggers of the count. Sounds due on the
// explosion frame fire when the delay counter reads 1. Sounds due a frame
// earlier fire at delay 2, or at delay 1 of the previous count when that
// count only lasts one frame.
func (st *countState) audioBlocks(rows []obstacle.Audio, delays []int) []string {
	var groups [2][]string
	for _, a := range rows {
		frames := st.table.MustKind(a.Kind).AudioFrames
		unit, ok := st.table.Unit(a.DCUnit)
		if !ok {
			panic("compiler: audio unit index was not validated")
		}
		groups[frames-1] = append(groups[frames-1], trigger.SetDeaths(st.opts.ForceName, unit, trigger.SetTo, 1))
	}

	var blocks []string
	for i, actions := range groups {
		if len(actions) == 0 {
			continue
		}
		actions = append(actions, trigger.PreserveTrigger())
		if st.opts.AddComments {
			text := st.opts.CommentStyle().Format(st.obNum, st.count, 1, false) + st.opts.AudioText
			actions = append(actions, trigger.Comment(text))
		}

		count, delay := st.count, 1
		if i == 1 {
			prev := (st.count-2+len(delays))%len(delays) + 1
			if delays[prev-1] > 1 {
				delay = 2
			} else {
				count = prev
			}
		}
		blocks = append(blocks, trigger.Block(st.opts.TriggerPlayer, st.conditions(count, delay), actions))
	}
	return blocks
}

func (st *countState) explosions(rows []obstacle.Explosion) {
	for _, num := range locationOrder(len(rows), func(i int) int { return rows[i].Location }) {
		loc := st.loc(num)
		var at []obstacle.Explosion
		for _, e := range rows {
			if e.Location == num {
				at = append(at, e)
			}
		}
		sort.SliceStable(at, func(i, j int) bool {
			if at[i].Pos.Y != at[j].Pos.Y {
				return at[i].Pos.Y < at[j].Pos.Y
			}
			return at[i].Pos.X < at[j].Pos.X
		})

		prev := loc.Center
		for _, pos := range positions(at) {
			for _, e := range at {
				if e.Pos != pos {
					continue
				}
				st.add(trigger.MoveLocation(loc.ID, e.Pos.Sub(prev))...)
				prev = e.Pos
				st.explode(e, loc)
			}
			if st.opts.DeathType == KillUnit {
				st.add(trigger.KillUnitAtLocation(trigger.Player(obstacle.AllPlayers), "Men", trigger.All, loc.Name))
			} else {
				st.add(trigger.RemoveUnitAtLocation(st.opts.ForceName, st.opts.PlayerUnit, trigger.All, loc.Name))
			}
		}
		st.add(trigger.MoveLocation(loc.ID, loc.Center.Sub(prev))...)
	}
}

// explode spawns one explosion at the location's current position.
func (st *countState) explode(e obstacle.Explosion, loc location.Location) {
	kind := st.table.MustKind(e.Kind)
	player := trigger.Player(e.Player)
	unit := refdata.ScannerSweep
	if kind.IsUnit() {
		unit = kind.Name
	} else {
		st.spriteUsed = true
		if kind.Image != st.lastSprite {
			st.add(trigger.MaskedMemoryAddr(trigger.ScannerImageAddr, trigger.MaskedSetTo, kind.Image, trigger.ScannerImageMask))
			st.lastSprite = kind.Image
		}
	}
	st.add(trigger.CreateUnit(player, unit, 1, loc.Name))
	if st.opts.DeathType == RemoveUnit && unit != refdata.ScannerSweep {
		st.add(trigger.KillUnitAtLocation(player, unit, trigger.All, loc.Name))
	}
}

func (st *countState) walls(rows []obstacle.Wall) {
	for _, num := range locationOrder(len(rows), func(i int) int { return rows[i].Location }) {
		loc := st.loc(num)
		var at []obstacle.Wall
		for _, w := range rows {
			if w.Location == num {
				at = append(at, w)
			}
		}
		sort.SliceStable(at, func(i, j int) bool {
			if at[i].Pos.X != at[j].Pos.X {
				return at[i].Pos.X < at[j].Pos.X
			}
			return at[i].Pos.Y < at[j].Pos.Y
		})

		prev := loc.Center
		for _, w := range at {
			st.add(trigger.MoveLocation(loc.ID, w.Pos.Sub(prev))...)
			prev = w.Pos
			unit := st.table.MustKind(w.Unit).Name
			all := trigger.Player(obstacle.AllPlayers)
			switch w.Op {
			case obstacle.WallRemove:
				st.add(trigger.RemoveUnitAtLocation(all, unit, trigger.All, loc.Name))
			case obstacle.WallKill:
				st.add(trigger.KillUnitAtLocation(all, unit, trigger.All, loc.Name))
			default:
				st.add(trigger.CreateUnitWithProperties(trigger.Player(w.Player), unit, 1, loc.Name, invincible))
			}
		}
		st.add(trigger.MoveLocation(loc.ID, loc.Center.Sub(prev))...)
	}
}

func (st *countState) teleports(rows []obstacle.Teleport) {
	sorted := append([]obstacle.Teleport(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].LocationFrom < sorted[j].LocationFrom })
	for _, t := range sorted {
		from := st.loc(t.LocationFrom)
		to := st.loc(t.LocationTo)
		st.marker(trigger.Player(t.PlayerFrom), t.ImageFrom, from.Name)
		st.marker(trigger.Player(t.PlayerTo), t.ImageTo, to.Name)
		st.add(trigger.MoveUnit(st.opts.ForceName, st.opts.PlayerUnit, trigger.All, from.Name, to.Name))
	}
}

// marker shows a teleport endpoint: a hallucination killed at once for unit
// kinds, a plain Scanner Sweep for sprites.
func (st *countState) marker(player string, image int, locName string) {
	kind := st.table.MustKind(image)
	if kind.IsUnit() {
		st.add(
			trigger.CreateUnitWithProperties(player, kind.Name, 1, locName, hallucinated),
			trigger.KillUnitAtLocation(player, kind.Name, trigger.All, locName),
		)
		return
	}
	st.spriteUsed = true
	st.add(trigger.CreateUnit(player, refdata.ScannerSweep, 1, locName))
}

// partition splits the count's actions into blocks. In frame timing the two
// closing Set Deaths actions always share a block.
func (st *countState) partition() []string {
	limit := actionLimit
	if st.opts.AddComments {
		limit--
	}
	multi := len(st.actions) > limit
	conds := st.conditions(st.count, -1)
	if st.frames {
		conds = st.conditions(st.count, 0)
	}

	var blocks, cur []string
	part := 1
	flush := func() {
		cur = append(cur, trigger.PreserveTrigger())
		if st.opts.AddComments {
			cur = append(cur, trigger.Comment(st.opts.CommentStyle().Format(st.obNum, st.count, part, multi)))
		}
		blocks = append(blocks, trigger.Block(st.opts.TriggerPlayer, conds, cur))
		cur = nil
		part++
	}
	for i, a := range st.actions {
		left := len(st.actions) - i
		if len(cur) == limit || (st.frames && len(cur) == limit-1 && left == 2) {
			flush()
		}
		cur = append(cur, a)
	}
	flush()
	return blocks
}

// locationOrder returns the distinct location numbers of n rows in
// ascending order.
func locationOrder(n int, loc func(i int) int) []int {
	seen := make(map[int]bool)
	var out []int
	for i := 0; i < n; i++ {
		if l := loc(i); !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Ints(out)
	return out
}

// positions returns the distinct positions of rows in first-seen order.
func positions(rows []obstacle.Explosion) []location.Point {
	seen := make(map[location.Point]bool)
	var out []location.Point
	for _, e := range rows {
		if !seen[e.Pos] {
			seen[e.Pos] = true
			out = append(out, e.Pos)
		}
	}
	return out
}
