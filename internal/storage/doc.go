// Package storage defines the persistence interfaces for the obstacle
// library.
//
// A library keeps whole projects: locations, naming, the obstacle's four
// relations and the trigger options. Implementations live in subpackages.
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested project is missing.
package storage
