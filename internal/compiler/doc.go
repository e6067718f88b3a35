// Package compiler turns an obstacle into trigger script text.
//
// Each count becomes one or more trigger blocks guarded by the obstacle and
// count death counters. In frame timing a third counter holds the frames
// left before the next count; in wait timing every count ends in a Wait.
// Blocks hold at most 63 actions, so large counts are split into parts.
package compiler
