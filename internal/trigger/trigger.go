package trigger

import (
	"fmt"
	"strings"
)

// Quantifiers and modifiers used in conditions and actions.
//
// Emitters write names and location labels between double quotes as given,
// with no escaping.
const (
	Exactly  = "Exactly"
	SetTo    = "Set to"
	All      = "All"
	Add      = "Add"
	Subtract = "Subtract"
	// MaskedSetTo is the masked memory write modifier; the editor spells it
	// with a capital T.
	MaskedSetTo = "Set To"
)

// Divider closes every block.
const Divider = "//-----------------------------------------------------------------//"

// Deaths is a death-count comparison condition.
func Deaths(player, unit, quantifier string, n int) string {
	return fmt.Sprintf("\tDeaths(\"%s\", \"%s\", %s, %d);\n", player, unit, quantifier, n)
}

// MemoryAddr writes value into memory at addr.
func MemoryAddr(addr int, op string, value int) string {
	return fmt.Sprintf("\tMemoryAddr(%#x, %s, %d);\n", addr, op, value)
}

// MaskedMemoryAddr writes value into the bits of addr selected by mask.
func MaskedMemoryAddr(addr int, op string, value, mask int) string {
	return fmt.Sprintf("\tMasked MemoryAddr(%#x, %s, %d, %#x);\n", addr, op, value, mask)
}

// CreateUnit spawns n units at loc.
func CreateUnit(player, unit string, n int, loc string) string {
	return fmt.Sprintf("\tCreate Unit(\"%s\", \"%s\", %d, \"%s\");\n", player, unit, n, loc)
}

// CreateUnitWithProperties spawns n units at loc with a property slot.
func CreateUnitWithProperties(player, unit string, n int, loc string, props int) string {
	return fmt.Sprintf("\tCreate Unit with Properties(\"%s\", \"%s\", %d, \"%s\", %d);\n", player, unit, n, loc, props)
}

// KillUnitAtLocation kills units owned by player at loc.
func KillUnitAtLocation(player, unit, quantifier, loc string) string {
	return fmt.Sprintf("\tKill Unit At Location(\"%s\", \"%s\", %s, \"%s\");\n", player, unit, quantifier, loc)
}

// KillUnit kills every unit of the type owned by player.
func KillUnit(player, unit string) string {
	return fmt.Sprintf("\tKill Unit(\"%s\", \"%s\");\n", player, unit)
}

// RemoveUnit removes every unit of the type owned by player without a death animation.
func RemoveUnit(player, unit string) string {
	return fmt.Sprintf("\tRemove Unit(\"%s\", \"%s\");\n", player, unit)
}

// RemoveUnitAtLocation removes units owned by player at loc.
func RemoveUnitAtLocation(player, unit, quantifier, loc string) string {
	return fmt.Sprintf("\tRemove Unit At Location(\"%s\", \"%s\", %s, \"%s\");\n", player, unit, quantifier, loc)
}

// SetDeaths sets a death counter.
func SetDeaths(player, unit, modifier string, n int) string {
	return fmt.Sprintf("\tSet Deaths(\"%s\", \"%s\", %s, %d);\n", player, unit, modifier, n)
}

// MoveUnit moves units owned by player from one location to another.
func MoveUnit(player, unit, quantifier, from, to string) string {
	return fmt.Sprintf("\tMove Unit(\"%s\", \"%s\", %s, \"%s\", \"%s\");\n", player, unit, quantifier, from, to)
}

// Wait pauses the trigger for ms milliseconds.
func Wait(ms int) string {
	return fmt.Sprintf("\tWait(%d);\n", ms)
}

// PreserveTrigger keeps the trigger armed after it fires.
func PreserveTrigger() string {
	return "\tPreserve Trigger();\n"
}

// Comment labels the trigger in the editor.
func Comment(text string) string {
	return fmt.Sprintf("\tComment(\"%s\");\n", text)
}

// Block wraps conditions and actions into one trigger owned by owner,
// followed by the divider.
func Block(owner string, conditions, actions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trigger(\"%s\"){\nConditions:\n", owner)
	for _, c := range conditions {
		b.WriteString(c)
	}
	b.WriteString("\nActions:\n")
	for _, a := range actions {
		b.WriteString(a)
	}
	b.WriteString("}\n\n")
	b.WriteString(Divider)
	return b.String()
}

// Player names player slot num: 0 is the current player, 1 to 8 are
// numbered players and anything else is every player.
func Player(num int) string {
	switch {
	case num == 0:
		return "Current Player"
	case num >= 1 && num <= 8:
		return fmt.Sprintf("Player %d", num)
	default:
		return "All players"
	}
}
