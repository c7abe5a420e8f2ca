package checkin

import "time"

// Checkin is a self-reported attendance record. A nil SegmentID is general attendance;
// otherwise the reporter claims the role of that segment.
type Checkin struct {
	ID             string    `json:"id"`
	MeetingID      string    `json:"meeting_id"`
	Wxid           string    `json:"wxid"`
	SegmentID      *string   `json:"segment_id,omitempty"`
	Name           *string   `json:"name,omitempty"`
	ReferralSource *string   `json:"referral_source,omitempty"`
	IsMember       bool      `json:"is_member"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
