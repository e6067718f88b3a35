// Package obstacle stores the timed events of one obstacle.
//
// A Store holds four relations keyed by count (a 1-based step of the
// obstacle's timeline) and location number: explosions, wall placements and
// removals, teleport links, and audio cues. It also owns the per-count
// delays and the timing mode, so inserting or deleting a count moves rows
// and delays in a single mutation.
//
// Walls are stored as discrete placement/removal rows. Whether a wall stands
// at a position on a given count is derived by scanning prior counts
// cyclically (SearchWall, FindWall): a wall lasts from its placement count
// up to, but not including, the next removal found scanning forward through
// all counts, and forever when no removal exists.
//
// Count 0 is never valid, which lets lookups use it as "absent".
package obstacle
