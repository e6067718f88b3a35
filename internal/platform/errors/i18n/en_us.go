package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknownKind        = "UNKNOWN_KIND"
	CodeUnknownUnit        = "UNKNOWN_UNIT"
	CodeCountOutOfRange    = "COUNT_OUT_OF_RANGE"
	CodeLocationOutOfRange = "LOCATION_OUT_OF_RANGE"
	CodeLocationLimit      = "LOCATION_LIMIT"
	CodeInvalidTiming      = "INVALID_TIMING"
	CodeInvalidObstacle    = "INVALID_OBSTACLE"
	CodeInvalidDeathType   = "INVALID_DEATH_TYPE"
	CodeInvalidOptions     = "INVALID_OPTIONS"
	CodeMissingAudioTime   = "MISSING_AUDIO_TIME"
	CodeScriptFailed       = "SCRIPT_FAILED"
	CodeNotFound           = "NOT_FOUND"
)

var enUSMessages = map[Code]string{
	CodeUnknownKind:        `Unknown explosion, wall, or marker "{{.Kind}}".`,
	CodeUnknownUnit:        `Unknown unit "{{.Unit}}".`,
	CodeCountOutOfRange:    "Count {{.Count}} does not exist (the obstacle has {{.Counts}} counts).",
	CodeLocationOutOfRange: "Location {{.Location}} does not exist (the map has {{.Locations}} locations).",
	CodeLocationLimit:      "A map can hold at most {{.Limit}} locations.",
	CodeInvalidTiming:      `Timing must be "frames" or "waits", got "{{.Timing}}".`,
	CodeInvalidObstacle:    "The obstacle data is inconsistent: {{.Reason}}.",
	CodeInvalidDeathType:   `Death type must be "Kill Unit" or "Remove Unit", got "{{.DeathType}}".`,
	CodeInvalidOptions:     "Invalid trigger options: {{.Reason}}.",
	CodeMissingAudioTime:   `"{{.Kind}}" has no audio timing and cannot be mapped to a sound.`,
	CodeScriptFailed:       "The obstacle script failed: {{.Reason}}.",
	CodeNotFound:           "Obstacle {{.ID}} was not found.",
}
