// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Reference table errors
	CodeUnknownKind Code = "UNKNOWN_KIND"
	CodeUnknownUnit Code = "UNKNOWN_UNIT"

	// Obstacle errors
	CodeCountOutOfRange    Code = "COUNT_OUT_OF_RANGE"
	CodeLocationOutOfRange Code = "LOCATION_OUT_OF_RANGE"
	CodeLocationLimit      Code = "LOCATION_LIMIT"
	CodeInvalidTiming      Code = "INVALID_TIMING"
	CodeInvalidObstacle    Code = "INVALID_OBSTACLE"

	// Compiler errors
	CodeInvalidDeathType Code = "INVALID_DEATH_TYPE"
	CodeInvalidOptions   Code = "INVALID_OPTIONS"
	CodeMissingAudioTime Code = "MISSING_AUDIO_TIME"

	// Script errors
	CodeScriptFailed Code = "SCRIPT_FAILED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// ExitCode maps domain codes to process exit codes for command entry points.
func (c Code) ExitCode() int {
	switch c {
	// 2 - bad input the user can fix
	case CodeUnknownKind,
		CodeUnknownUnit,
		CodeCountOutOfRange,
		CodeLocationOutOfRange,
		CodeLocationLimit,
		CodeInvalidTiming,
		CodeInvalidObstacle,
		CodeInvalidDeathType,
		CodeInvalidOptions,
		CodeMissingAudioTime,
		CodeScriptFailed:
		return 2

	// 3 - resource doesn't exist
	case CodeNotFound:
		return 3

	default:
		return 1
	}
}
