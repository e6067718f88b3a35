package trigger

import "github.com/louisbranch/obstacle-studio/internal/location"

// locationTable is the address of the first location's left edge. Each
// location is 20 bytes: left, top, right, bottom, then flags.
const locationTable = 5823584

// ScannerImageAddr holds the image id Scanner Sweep is drawn with.
const ScannerImageAddr = 6710360

// ScannerImageMask selects the image id bits at ScannerImageAddr.
const ScannerImageMask = 0xffff

// MoveLocation shifts location id by d. Each nonzero axis takes two writes,
// one per edge; fractional pixels are truncated.
func MoveLocation(id int, d location.Point) []string {
	left := locationTable + 20*(id-1)
	var actions []string
	actions = append(actions, shift(left, int(d.X))...)
	actions = append(actions, shift(left+4, int(d.Y))...)
	return actions
}

func shift(addr, delta int) []string {
	switch {
	case delta < 0:
		return []string{MemoryAddr(addr, Subtract, -delta), MemoryAddr(addr+8, Subtract, -delta)}
	case delta > 0:
		return []string{MemoryAddr(addr, Add, delta), MemoryAddr(addr+8, Add, delta)}
	}
	return nil
}
