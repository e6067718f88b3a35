package compiler

import (
	"strings"

	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
	"github.com/louisbranch/obstacle-studio/internal/trigger"
)

// DeathType is how players caught by an explosion die.
type DeathType string

const (
	// KillUnit kills every man at the explosion location.
	KillUnit DeathType = "Kill Unit"
	// RemoveUnit removes the player unit without a death animation.
	RemoveUnit DeathType = "Remove Unit"
)

// Options configures the generated triggers. The JSON keys match the
// trigger settings of saved projects.
type Options struct {
	TriggerPlayer string    `json:"Trigger player" env:"TRIGGER_PLAYER" envDefault:"Player 8"`
	ForceName     string    `json:"Force name" env:"FORCE_NAME" envDefault:"Force 1"`
	DCPlayer      string    `json:"DC player" env:"DC_PLAYER" envDefault:"Player 8"`
	ObstacleUnit  string    `json:"Obstacle DC unit" env:"OBSTACLE_DC_UNIT" envDefault:"Cantina"`
	CountUnit     string    `json:"Count DC unit" env:"COUNT_DC_UNIT" envDefault:"Cave"`
	DelayUnit     string    `json:"Delay DC unit" env:"DELAY_DC_UNIT" envDefault:"Cave-in"`
	DeathType     DeathType `json:"Death type" env:"DEATH_TYPE" envDefault:"Kill Unit"`
	PlayerUnit    string    `json:"Player unit" env:"PLAYER_UNIT" envDefault:"Zerg Zergling"`
	AddComments   bool      `json:"Add comments" env:"ADD_COMMENTS" envDefault:"true"`
	ObstacleText  string    `json:"Obstacle text" env:"OBSTACLE_TEXT" envDefault:"Ob "`
	CountText     string    `json:"Count text" env:"COUNT_TEXT" envDefault:"Count "`
	PartText      string    `json:"Part text" env:"PART_TEXT" envDefault:"Part "`
	Delineator    string    `json:"Delineator" env:"DELINEATOR" envDefault:" | "`
	AudioText     string    `json:"Audio text" env:"AUDIO_TEXT" envDefault:" Audio"`
}

// DefaultOptions returns the options a new project starts with.
func DefaultOptions() Options {
	return Options{
		TriggerPlayer: "Player 8",
		ForceName:     "Force 1",
		DCPlayer:      "Player 8",
		ObstacleUnit:  "Cantina",
		CountUnit:     "Cave",
		DelayUnit:     "Cave-in",
		DeathType:     KillUnit,
		PlayerUnit:    "Zerg Zergling",
		AddComments:   true,
		ObstacleText:  "Ob ",
		CountText:     "Count ",
		PartText:      "Part ",
		Delineator:    " | ",
		AudioText:     " Audio",
	}
}

// CommentStyle returns the comment pieces of o.
func (o Options) CommentStyle() trigger.CommentStyle {
	return trigger.CommentStyle{
		ObstacleText: o.ObstacleText,
		CountText:    o.CountText,
		PartText:     o.PartText,
		Delineator:   o.Delineator,
	}
}

// Validate checks that o names real death-count units and a known death
// type.
func (o Options) Validate(table *refdata.Table) error {
	switch o.DeathType {
	case KillUnit, RemoveUnit:
	default:
		return apperrors.WithMetadata(apperrors.CodeInvalidDeathType, "invalid death type", map[string]string{
			"DeathType": string(o.DeathType),
		})
	}
	required := []struct{ field, value string }{
		{"trigger player", o.TriggerPlayer},
		{"force name", o.ForceName},
		{"DC player", o.DCPlayer},
		{"player unit", o.PlayerUnit},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperrors.WithMetadata(apperrors.CodeInvalidOptions, r.field+" is required", map[string]string{
				"Reason": r.field + " is required",
			})
		}
	}
	for _, u := range []string{o.ObstacleUnit, o.CountUnit, o.DelayUnit} {
		if _, ok := table.UnitIndex(u); !ok {
			return apperrors.WithMetadata(apperrors.CodeUnknownUnit, "unknown death-count unit", map[string]string{
				"Unit": u,
			})
		}
	}
	if o.ObstacleUnit == o.CountUnit || o.CountUnit == o.DelayUnit || o.ObstacleUnit == o.DelayUnit {
		return apperrors.WithMetadata(apperrors.CodeInvalidOptions, "death-count units must differ", map[string]string{
			"Reason": "the obstacle, count and delay units must be different",
		})
	}
	return nil
}
