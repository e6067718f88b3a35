// Package trigger formats the lines of a map-editor trigger script.
//
// Every function returns one line of script text, tab-indented and
// newline-terminated, ready to be collected into a block with Block.
package trigger
