package trigger

import (
	"strconv"
	"strings"
)

// CommentStyle names the pieces of a block comment.
type CommentStyle struct {
	ObstacleText string `json:"Obstacle text"`
	CountText    string `json:"Count text"`
	PartText     string `json:"Part text"`
	Delineator   string `json:"Delineator"`
}

// Format renders the comment for one block. The part number is left out
// unless the count needed more than one block.
func (s CommentStyle) Format(obstacle, count, part int, multiPart bool) string {
	pieces := []string{
		s.ObstacleText + strconv.Itoa(obstacle),
		s.CountText + strconv.Itoa(count),
	}
	if multiPart {
		pieces = append(pieces, s.PartText+strconv.Itoa(part))
	}
	return strings.Join(pieces, s.Delineator)
}
