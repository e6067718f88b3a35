// Package script builds obstacle projects from Lua.
//
// A script creates an obstacle with Obstacle.new, places events through its
// methods and returns it:
//
//	local ob = Obstacle.new{timing = "frames", number = 2}
//	local a = ob:location{x = 0, y = 0, width = 3, height = 3}
//	ob:explosion{count = 1, loc = a, x = 16, y = 16, kind = "Zerg Scourge"}
//	return ob
//
// Events go through the same placement rules as the editor; methods that
// place something return whether the placement was accepted.
package script

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/obstacle-studio/internal/location"
	"github.com/louisbranch/obstacle-studio/internal/obstacle"
	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
	"github.com/louisbranch/obstacle-studio/internal/project"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
)

const obstacleTypeName = "obstacle"

// LoadFile runs the script at path.
func LoadFile(path string, table *refdata.Table) (*project.Project, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return run(table, name, func(state *lua.State) error {
		return lua.LoadFile(state, path, "")
	})
}

// Run runs src as a script called name.
func Run(name, src string, table *refdata.Table) (*project.Project, error) {
	return run(table, name, func(state *lua.State) error {
		return lua.LoadBuffer(state, src, name, "")
	})
}

func run(table *refdata.Table, name string, load func(*lua.State) error) (*project.Project, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	b := &binder{table: table}
	b.register(state)

	if err := load(state); err != nil {
		return nil, scriptFailed(fmt.Errorf("load lua: %w", err))
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, scriptFailed(fmt.Errorf("run lua: %w", err))
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, scriptFailed(fmt.Errorf("obstacle script must return an Obstacle"))
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	p, ok := ud.(*project.Project)
	if !ok || p == nil {
		return nil, scriptFailed(fmt.Errorf("obstacle script returned an invalid Obstacle"))
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = name
	}
	return p, nil
}

func scriptFailed(err error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeScriptFailed, "obstacle script failed", map[string]string{
		"Reason": err.Error(),
	}, err)
}

type binder struct {
	table *refdata.Table
}

func (b *binder) register(state *lua.State) {
	lua.NewMetaTable(state, obstacleTypeName)
	state.NewTable()
	lua.SetFunctions(state, b.methods(), 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "new", Function: b.newObstacle},
	}, 0)
	state.SetGlobal("Obstacle")
}

func (b *binder) methods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "location", Function: b.location},
		{Name: "delete_location", Function: b.deleteLocation},
		{Name: "count", Function: b.count},
		{Name: "insert_count", Function: b.insertCount},
		{Name: "delete_count", Function: b.deleteCount},
		{Name: "delay", Function: b.delay},
		{Name: "explosion", Function: b.explosion},
		{Name: "delete_explosion", Function: b.deleteExplosion},
		{Name: "wall", Function: b.wall},
		{Name: "remove_wall", Function: b.removeWall},
		{Name: "delete_wall", Function: b.deleteWall},
		{Name: "teleport", Function: b.teleport},
		{Name: "audio", Function: b.audio},
	}
}

// newObstacle implements Obstacle.new{timing, number, prefix, convention,
// offset, name}.
func (b *binder) newObstacle(state *lua.State) int {
	timing, number := obstacle.Waits, 1
	naming := location.NamingPolicy{Prefix: "ob"}
	var name string
	if state.TypeOf(1) == lua.TypeTable {
		var err error
		if timing, err = obstacle.ParseTiming(stringField(state, 1, "timing", "waits")); err != nil {
			lua.ArgumentError(state, 1, err.Error())
		}
		if naming.Convention, err = location.ParseConvention(stringField(state, 1, "convention", "numeric")); err != nil {
			lua.ArgumentError(state, 1, err.Error())
		}
		number = intField(state, 1, "number", 1)
		naming.Prefix = stringField(state, 1, "prefix", "ob")
		naming.IDOffset = intField(state, 1, "offset", 0)
		name = stringField(state, 1, "name", "")
	}
	p := project.New(timing)
	p.Name = name
	p.Number = number
	p.Naming = naming
	state.PushUserData(p)
	lua.SetMetaTableNamed(state, obstacleTypeName)
	return 1
}

// location adds {x, y, width, height} and returns its number.
func (b *binder) location(state *lua.State) int {
	p := checkProject(state)
	lua.CheckType(state, 2, lua.TypeTable)
	r := location.Rect{
		X:      floatField(state, 2, "x", 0),
		Y:      floatField(state, 2, "y", 0),
		Width:  floatField(state, 2, "width", 1),
		Height: floatField(state, 2, "height", 1),
	}
	num, err := p.AddLocation(r)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
	}
	state.PushInteger(num)
	return 1
}

func (b *binder) deleteLocation(state *lua.State) int {
	p := checkProject(state)
	if err := p.DeleteLocation(lua.CheckInteger(state, 2)); err != nil {
		lua.Errorf(state, "%s", err.Error())
	}
	return 0
}

// count appends a count and returns its number.
func (b *binder) count(state *lua.State) int {
	p := checkProject(state)
	n := p.Obstacle.NumCounts() + 1
	if err := p.Obstacle.InsertCount(n); err != nil {
		lua.Errorf(state, "%s", err.Error())
	}
	state.PushInteger(n)
	return 1
}

func (b *binder) insertCount(state *lua.State) int {
	p := checkProject(state)
	if err := p.Obstacle.InsertCount(lua.CheckInteger(state, 2)); err != nil {
		lua.Errorf(state, "%s", err.Error())
	}
	return 0
}

func (b *binder) deleteCount(state *lua.State) int {
	p := checkProject(state)
	if err := p.Obstacle.DeleteCount(lua.CheckInteger(state, 2)); err != nil {
		lua.Errorf(state, "%s", err.Error())
	}
	return 0
}

// delay sets delay(count, value).
func (b *binder) delay(state *lua.State) int {
	p := checkProject(state)
	if err := p.Obstacle.SetDelay(lua.CheckInteger(state, 2), lua.CheckInteger(state, 3)); err != nil {
		lua.Errorf(state, "%s", err.Error())
	}
	return 0
}

// explosion places {count, loc, x, y, kind, player}.
func (b *binder) explosion(state *lua.State) int {
	p := checkProject(state)
	at := checkPlace(state, p)
	kind := b.checkKind(state, stringField(state, 2, "kind", ""), func(refdata.Kind) bool { return true })
	player := intField(state, 2, "player", 1)
	state.PushBoolean(p.Obstacle.PlaceExplosion(at.count, player, kind.ID, at.loc, at.pos))
	return 1
}

func (b *binder) deleteExplosion(state *lua.State) int {
	p := checkProject(state)
	at := checkPlace(state, p)
	kind := b.checkKind(state, stringField(state, 2, "kind", ""), func(refdata.Kind) bool { return true })
	p.Obstacle.DeleteExplosion(at.count, kind.ID, at.loc, at.pos)
	return 0
}

// wall places {count, loc, x, y, unit, player}.
func (b *binder) wall(state *lua.State) int {
	p := checkProject(state)
	at := checkPlace(state, p)
	kind := b.checkKind(state, stringField(state, 2, "unit", ""), func(k refdata.Kind) bool { return k.Wall })
	player := intField(state, 2, "player", 1)
	state.PushBoolean(p.Obstacle.TryPlaceWall(at.count, player, kind.ID, at.loc, at.pos))
	return 1
}

// remove_wall removes the wall standing at {count, loc, x, y}; kill=true
// kills it instead.
func (b *binder) removeWall(state *lua.State) int {
	p := checkProject(state)
	at := checkPlace(state, p)
	op := obstacle.WallRemove
	if boolField(state, 2, "kill") {
		op = obstacle.WallKill
	}
	state.PushBoolean(p.Obstacle.TryRemoveWall(at.count, op, at.loc, at.pos))
	return 1
}

func (b *binder) deleteWall(state *lua.State) int {
	p := checkProject(state)
	at := checkPlace(state, p)
	state.PushBoolean(p.Obstacle.DeleteWallAt(at.count, at.loc, at.pos))
	return 1
}

// teleport links {count, from, to} with markers marker_from and marker_to
// (or marker for both) owned by player_from and player_to.
func (b *binder) teleport(state *lua.State) int {
	p := checkProject(state)
	lua.CheckType(state, 2, lua.TypeTable)
	count := checkCount(state, p, requiredInt(state, 2, "count"))
	from := checkLocation(state, p, requiredInt(state, 2, "from"))
	to := checkLocation(state, p, requiredInt(state, 2, "to"))
	marker := stringField(state, 2, "marker", "")
	isMarker := func(k refdata.Kind) bool { return k.Teleport }
	markerFrom := b.checkKind(state, stringField(state, 2, "marker_from", marker), isMarker)
	markerTo := b.checkKind(state, stringField(state, 2, "marker_to", marker), isMarker)
	player := intField(state, 2, "player", 1)
	playerFrom := intField(state, 2, "player_from", player)
	playerTo := intField(state, 2, "player_to", player)
	state.PushBoolean(p.Obstacle.TryAddTeleport(count, playerFrom, playerTo, markerFrom.ID, markerTo.ID, from, to))
	return 1
}

// audio maps {count, kind} to the death-count unit {unit}.
func (b *binder) audio(state *lua.State) int {
	p := checkProject(state)
	lua.CheckType(state, 2, lua.TypeTable)
	count := checkCount(state, p, requiredInt(state, 2, "count"))
	kind := b.checkKind(state, stringField(state, 2, "kind", ""), refdata.Kind.HasAudio)
	unitName := stringField(state, 2, "unit", "")
	unit, ok := b.table.UnitIndex(unitName)
	if !ok {
		lua.Errorf(state, "%s", fmt.Sprintf("unknown unit %q", unitName))
	}
	if !p.Obstacle.FindExplosionInCount(count, kind.ID) {
		state.PushBoolean(false)
		return 1
	}
	p.Obstacle.AddAudio(count, kind.ID, unit)
	state.PushBoolean(true)
	return 1
}

func (b *binder) checkKind(state *lua.State, name string, usable func(refdata.Kind) bool) refdata.Kind {
	k, ok := b.table.KindByName(name)
	if !ok {
		lua.Errorf(state, "%s", fmt.Sprintf("unknown kind %q", name))
	}
	if !usable(k) {
		lua.Errorf(state, "%s", fmt.Sprintf("%q cannot be used here", name))
	}
	return k
}

func checkProject(state *lua.State) *project.Project {
	ud := lua.CheckUserData(state, 1, obstacleTypeName)
	if p, ok := ud.(*project.Project); ok && p != nil {
		return p
	}
	lua.ArgumentError(state, 1, "obstacle expected")
	return nil
}
