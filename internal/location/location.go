// Package location describes the map regions obstacle events are placed on.
package location

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxLocations is the engine's location limit.
const MaxLocations = 255

// TileSize is the width of one map tile in pixels.
const TileSize = 32

// Point is a pixel position relative to a location's top-left corner.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is a location rectangle: top-left corner in pixels, size in tiles.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the rectangle's center relative to its top-left corner.
func (r Rect) Center() Point {
	return Point{X: TileSize * r.Width / 2, Y: TileSize * r.Height / 2}
}

// Location is one named, numbered region as the compiler sees it.
type Location struct {
	Num    int
	ID     int
	Name   string
	Center Point
}

// Convention selects how location numbers become name suffixes.
type Convention int

const (
	// Numeric appends the number: ob1, ob2, ..., ob10.
	Numeric Convention = iota
	// Padded zero-pads to the width of the location count: ob01, ..., ob10.
	Padded
	// Lower appends lowercase letters: oba, ..., obz, obaa.
	Lower
	// Upper appends uppercase letters: obA, ..., obZ, obAA.
	Upper
)

var conventionNames = map[string]Convention{
	"numeric": Numeric,
	"padded":  Padded,
	"lower":   Lower,
	"upper":   Upper,
}

// ParseConvention accepts a convention name or its numeric value.
func ParseConvention(s string) (Convention, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := conventionNames[s]; ok {
		return c, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= int(Numeric) && n <= int(Upper) {
		return Convention(n), nil
	}
	return Numeric, fmt.Errorf("unknown numbering convention %q", s)
}

// String returns the convention name.
func (c Convention) String() string {
	for name, v := range conventionNames {
		if v == c {
			return name
		}
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// NamingPolicy renders location names and script IDs.
type NamingPolicy struct {
	Prefix     string
	Convention Convention
	IDOffset   int
}

// Name returns the name of location num out of total locations.
func (p NamingPolicy) Name(num, total int) string {
	var suffix string
	switch p.Convention {
	case Padded:
		digits := len(strconv.Itoa(total))
		suffix = fmt.Sprintf("%0*d", digits, num)
	case Lower:
		suffix = letters(num, 'a')
	case Upper:
		suffix = letters(num, 'A')
	default:
		suffix = strconv.Itoa(num)
	}
	return p.Prefix + suffix
}

// ID returns the script ID of location num.
func (p NamingPolicy) ID(num int) int {
	return num + p.IDOffset
}

// Locations numbers rects in order and names them with p.
func (p NamingPolicy) Locations(rects []Rect) []Location {
	out := make([]Location, len(rects))
	for i, r := range rects {
		num := i + 1
		out[i] = Location{
			Num:    num,
			ID:     p.ID(num),
			Name:   p.Name(num, len(rects)),
			Center: r.Center(),
		}
	}
	return out
}

// letters spells num as a one- or two-letter suffix starting at base.
func letters(num int, base byte) string {
	last := base + byte((num-1)%26)
	if num <= 26 {
		return string(last)
	}
	first := base + byte((num-1)/26) - 1
	return string([]byte{first, last})
}
