package refdata

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Class distinguishes kinds spawned directly from kinds drawn through the
// Scanner Sweep placeholder.
type Class uint8

const (
	// ClassUnit kinds are spawned as units.
	ClassUnit Class = iota + 1
	// ClassSprite kinds are drawn by rewriting the Scanner Sweep image.
	ClassSprite
)

// String returns the YAML spelling of the class.
func (c Class) String() string {
	switch c {
	case ClassUnit:
		return "unit"
	case ClassSprite:
		return "sprite"
	default:
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
}

// UnmarshalYAML decodes "unit" or "sprite".
func (c *Class) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "unit":
		*c = ClassUnit
	case "sprite":
		*c = ClassSprite
	default:
		return fmt.Errorf("line %d: unknown class %q", value.Line, raw)
	}
	return nil
}

// Kind is one row of the kinds table.
type Kind struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Class Class  `yaml:"class"`
	// Image is the images.dat id written for sprites.
	Image int `yaml:"image"`
	// AudioFrames is 1 when the sound fires on the explosion frame, 2 when
	// it fires one frame early, 0 when the kind has no sound timing.
	AudioFrames int  `yaml:"audio"`
	Wall        bool `yaml:"wall"`
	Teleport    bool `yaml:"teleport"`
}

// IsUnit reports whether the kind is spawned as itself.
func (k Kind) IsUnit() bool {
	return k.Class == ClassUnit
}

// IsSprite reports whether the kind needs the Scanner Sweep placeholder.
func (k Kind) IsSprite() bool {
	return k.Class == ClassSprite
}

// HasAudio reports whether the kind can be mapped to a sound.
func (k Kind) HasAudio() bool {
	return k.AudioFrames == 1 || k.AudioFrames == 2
}
