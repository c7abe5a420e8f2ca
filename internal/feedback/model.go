package feedback

import (
	"strings"
	"time"
)

// Type is the kind of feedback
type Type string

const (
	TypeExperienceOpening Type = "experience_opening"
	TypeExperiencePeak    Type = "experience_peak"
	TypeExperienceValley  Type = "experience_valley"
	TypeExperienceEnding  Type = "experience_ending"
	TypeSegment           Type = "segment"
	TypeAttendee          Type = "attendee"
)

// Valid reports whether t is a known feedback type
func (t Type) Valid() bool {
	switch t {
	case TypeExperienceOpening, TypeExperiencePeak, TypeExperienceValley, TypeExperienceEnding,
		TypeSegment, TypeAttendee:
		return true
	}
	return false
}

// IsExperience reports whether at most one feedback of this type may exist per author and meeting
func (t Type) IsExperience() bool {
	return strings.HasPrefix(string(t), "experience_")
}

// Feedback is a note from a chat identity about a meeting, a segment or an attendee
type Feedback struct {
	ID           string    `json:"id"`
	MeetingID    string    `json:"meeting_id"`
	SegmentID    *string   `json:"segment_id,omitempty"`
	Type         Type      `json:"type"`
	Value        string    `json:"value"`
	FromWxid     string    `json:"from_wxid"`
	ToAttendeeID *string   `json:"to_attendee_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
