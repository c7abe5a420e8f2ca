package timing

import (
	"time"

	"github.com/fkhayef/clubhub/internal/timing/signal"
)

// TimingItem is one timed speaker or segment run
type TimingItem struct {
	Name                   *string   `json:"name,omitempty"`
	PlannedDurationMinutes int       `json:"planned_duration_minutes"`
	ActualStartTime        time.Time `json:"actual_start_time"`
	ActualEndTime          time.Time `json:"actual_end_time"`
}

// CreateTimingRequest is the body of POST /meetings/{meetingID}/timings
type CreateTimingRequest struct {
	SegmentID string `json:"segment_id"`
	TimingItem
}

// BatchRequest replaces every timing of one segment. An empty list clears the segment.
type BatchRequest struct {
	SegmentID string       `json:"segment_id"`
	Timings   []TimingItem `json:"timings"`
}

// BatchAllRequest replaces the timings of several segments at once
type BatchAllRequest struct {
	Segments []BatchRequest `json:"segments"`
}

// TimingResponse represents a timing in API responses
type TimingResponse struct {
	ID                     string       `json:"id"`
	MeetingID              string       `json:"meeting_id"`
	SegmentID              string       `json:"segment_id"`
	Name                   *string      `json:"name,omitempty"`
	PlannedDurationMinutes int          `json:"planned_duration_minutes"`
	ActualStartTime        string       `json:"actual_start_time"`
	ActualEndTime          string       `json:"actual_end_time"`
	ActualDurationSeconds  int          `json:"actual_duration_seconds"`
	DotColor               signal.Color `json:"dot_color"`
	CreatedAt              string       `json:"created_at"`
	UpdatedAt              string       `json:"updated_at"`
}

// TimingListResponse carries a meeting's timings and whether the caller may record them
type TimingListResponse struct {
	CanControl bool              `json:"can_control"`
	Timings    []*TimingResponse `json:"timings"`
}

// TimingBatchResponse wraps the timings written by a batch
type TimingBatchResponse struct {
	Timings []*TimingResponse `json:"timings"`
}

// ToResponse converts a Timing model to a TimingResponse DTO
func (t *Timing) ToResponse() *TimingResponse {
	return &TimingResponse{
		ID:                     t.ID,
		MeetingID:              t.MeetingID,
		SegmentID:              t.SegmentID,
		Name:                   t.Name,
		PlannedDurationMinutes: t.PlannedDurationMinutes,
		ActualStartTime:        t.ActualStartTime.UTC().Format(time.RFC3339),
		ActualEndTime:          t.ActualEndTime.UTC().Format(time.RFC3339),
		ActualDurationSeconds:  t.ActualDurationSeconds,
		DotColor:               t.DotColor,
		CreatedAt:              t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:              t.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func toResponses(timings []*Timing) []*TimingResponse {
	out := make([]*TimingResponse, len(timings))
	for i, t := range timings {
		out[i] = t.ToResponse()
	}
	return out
}
