package script

import (
	"github.com/Shopify/go-lua"

	"github.com/louisbranch/obstacle-studio/internal/location"
	"github.com/louisbranch/obstacle-studio/internal/project"
)

// place is the {count, loc, x, y} part of an event table.
type place struct {
	count int
	loc   int
	pos   location.Point
}

func checkPlace(state *lua.State, p *project.Project) place {
	lua.CheckType(state, 2, lua.TypeTable)
	return place{
		count: checkCount(state, p, requiredInt(state, 2, "count")),
		loc:   checkLocation(state, p, requiredInt(state, 2, "loc")),
		pos: location.Point{
			X: floatField(state, 2, "x", 0),
			Y: floatField(state, 2, "y", 0),
		},
	}
}

func checkCount(state *lua.State, p *project.Project, c int) int {
	if c < 1 || c > p.Obstacle.NumCounts() {
		lua.Errorf(state, "count %d does not exist", c)
	}
	return c
}

func checkLocation(state *lua.State, p *project.Project, loc int) int {
	if loc < 1 || loc > len(p.Rects) {
		lua.Errorf(state, "location %d does not exist", loc)
	}
	return loc
}

func floatField(state *lua.State, index int, key string, def float64) float64 {
	state.Field(index, key)
	defer state.Pop(1)
	if state.IsNil(-1) {
		return def
	}
	v, ok := state.ToNumber(-1)
	if !ok {
		lua.Errorf(state, "%s must be a number", key)
	}
	return v
}

func intField(state *lua.State, index int, key string, def int) int {
	return int(floatField(state, index, key, float64(def)))
}

func requiredInt(state *lua.State, index int, key string) int {
	state.Field(index, key)
	missing := state.IsNil(-1)
	state.Pop(1)
	if missing {
		lua.Errorf(state, "%s is required", key)
	}
	return intField(state, index, key, 0)
}

func stringField(state *lua.State, index int, key, def string) string {
	state.Field(index, key)
	defer state.Pop(1)
	if state.IsNil(-1) {
		return def
	}
	v, ok := state.ToString(-1)
	if !ok {
		lua.Errorf(state, "%s must be a string", key)
	}
	return v
}

func boolField(state *lua.State, index int, key string) bool {
	state.Field(index, key)
	defer state.Pop(1)
	return state.ToBoolean(-1)
}
