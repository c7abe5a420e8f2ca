package timing

import (
	"time"

	"github.com/fkhayef/clubhub/internal/timing/signal"
)

// Timing is the recorded actual duration of a segment against its plan
type Timing struct {
	ID                     string       `json:"id"`
	MeetingID              string       `json:"meeting_id"`
	SegmentID              string       `json:"segment_id"`
	Name                   *string      `json:"name,omitempty"`
	PlannedDurationMinutes int          `json:"planned_duration_minutes"`
	ActualStartTime        time.Time    `json:"actual_start_time"`
	ActualEndTime          time.Time    `json:"actual_end_time"`
	ActualDurationSeconds  int          `json:"actual_duration_seconds"`
	DotColor               signal.Color `json:"dot_color"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

// SegmentBatch is the full set of timings recorded for one segment
type SegmentBatch struct {
	SegmentID string
	Timings   []*Timing
}
