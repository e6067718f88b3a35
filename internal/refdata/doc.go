// Package refdata holds the static reference tables shared by the obstacle
// store and the trigger compiler: explosion, wall and teleport-marker kinds,
// and the unit list used for death-count storage.
//
// The tables are read-only once loaded. Default returns the table embedded
// in the binary; Parse builds one from custom YAML for maps that use
// modified data files.
package refdata
