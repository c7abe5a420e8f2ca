package meeting

import "time"

// Status is the publication state of a meeting
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Meeting represents a club meeting with its agenda
type Meeting struct {
	ID           string     `json:"id"`
	No           *int       `json:"no,omitempty"`
	Type         string     `json:"type"`
	Theme        string     `json:"theme"`
	ManagerID    *string    `json:"manager_id,omitempty"`
	Date         time.Time  `json:"date"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	Location     string     `json:"location"`
	Introduction string     `json:"introduction"`
	Status       Status     `json:"status"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Segments     []*Segment `json:"segments,omitempty"`
}

// Segment is a scheduled slot within a meeting. RoleTakerID references an attendee.
type Segment struct {
	ID                string   `json:"id"`
	MeetingID         string   `json:"meeting_id"`
	Type              string   `json:"type"`
	StartTime         string   `json:"start_time"`
	Duration          string   `json:"duration"`
	EndTime           string   `json:"end_time"`
	RoleTakerID       *string  `json:"role_taker_id,omitempty"`
	Title             string   `json:"title"`
	Content           string   `json:"content"`
	RelatedSegmentIDs []string `json:"related_segment_ids"`
	SortOrder         int      `json:"sort_order"`
}

// SegmentIDs returns the ids of the meeting's segments
func (m *Meeting) SegmentIDs() []string {
	ids := make([]string, len(m.Segments))
	for i, s := range m.Segments {
		ids[i] = s.ID
	}
	return ids
}
