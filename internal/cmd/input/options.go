package input

import (
	"flag"

	"github.com/louisbranch/obstacle-studio/internal/compiler"
)

type optionField struct {
	flag  string
	env   string
	usage string
	value func(*compiler.Options) *string
}

var optionFields = []optionField{
	{"trigger-player", "TRIGGER_PLAYER", "player that owns the triggers", func(o *compiler.Options) *string { return &o.TriggerPlayer }},
	{"force", "FORCE_NAME", "force name used for the start marker", func(o *compiler.Options) *string { return &o.ForceName }},
	{"dc-player", "DC_PLAYER", "player whose death counters drive the obstacle", func(o *compiler.Options) *string { return &o.DCPlayer }},
	{"obstacle-unit", "OBSTACLE_DC_UNIT", "death-count unit holding the running obstacle", func(o *compiler.Options) *string { return &o.ObstacleUnit }},
	{"count-unit", "COUNT_DC_UNIT", "death-count unit holding the current count", func(o *compiler.Options) *string { return &o.CountUnit }},
	{"delay-unit", "DELAY_DC_UNIT", "death-count unit holding the frame delay", func(o *compiler.Options) *string { return &o.DelayUnit }},
	{"death-type", "DEATH_TYPE", `how players die ("Kill Unit" or "Remove Unit")`, func(o *compiler.Options) *string { return (*string)(&o.DeathType) }},
	{"player-unit", "PLAYER_UNIT", "unit the players control", func(o *compiler.Options) *string { return &o.PlayerUnit }},
	{"obstacle-text", "OBSTACLE_TEXT", "comment text before the obstacle number", func(o *compiler.Options) *string { return &o.ObstacleText }},
	{"count-text", "COUNT_TEXT", "comment text before the count number", func(o *compiler.Options) *string { return &o.CountText }},
	{"part-text", "PART_TEXT", "comment text before the part number", func(o *compiler.Options) *string { return &o.PartText }},
	{"delineator", "DELINEATOR", "separator between comment pieces", func(o *compiler.Options) *string { return &o.Delineator }},
	{"audio-text", "AUDIO_TEXT", "comment suffix of audio triggers", func(o *compiler.Options) *string { return &o.AudioText }},
}

const (
	commentsFlag = "comments"
	commentsEnv  = "ADD_COMMENTS"
)

// Overrides records which trigger options were given explicitly. Options a
// project file carries win over defaults but lose to env and flags.
type Overrides struct {
	values compiler.Options
	set    map[string]bool
}

// BindOptions registers one flag per trigger option, writing into opts.
func BindOptions(fs *flag.FlagSet, opts *compiler.Options) {
	for _, f := range optionFields {
		p := f.value(opts)
		fs.StringVar(p, f.flag, *p, f.usage)
	}
	fs.BoolVar(&opts.AddComments, commentsFlag, opts.AddComments, "add comment actions to every trigger")
}

// TrackOptions returns the overrides in opts after fs has been parsed.
// envSet holds the env names that were present.
func TrackOptions(fs *flag.FlagSet, envSet map[string]bool, opts compiler.Options) Overrides {
	flags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { flags[f.Name] = true })

	o := Overrides{values: opts, set: make(map[string]bool)}
	for _, f := range optionFields {
		if flags[f.flag] || envSet[f.env] {
			o.set[f.flag] = true
		}
	}
	if flags[commentsFlag] || envSet[commentsEnv] {
		o.set[commentsFlag] = true
	}
	return o
}

// Apply returns base with the explicit overrides written over it.
func (o Overrides) Apply(base compiler.Options) compiler.Options {
	values := o.values
	for _, f := range optionFields {
		if o.set[f.flag] {
			*f.value(&base) = *f.value(&values)
		}
	}
	if o.set[commentsFlag] {
		base.AddComments = values.AddComments
	}
	return base
}
