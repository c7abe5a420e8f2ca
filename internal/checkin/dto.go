package checkin

// CreateCheckinRequest is the body of POST /meetings/{meetingID}/checkins.
// SegmentIDs null checks in for general attendance, [] removes every checkin of the caller,
// and a list checks in for exactly those segments.
type CreateCheckinRequest struct {
	SegmentIDs     []string `json:"segment_ids"`
	Name           *string  `json:"name,omitempty"`
	ReferralSource *string  `json:"referral_source,omitempty"`
}

// CheckinResponse represents a checkin in API responses
type CheckinResponse struct {
	ID             string  `json:"id"`
	MeetingID      string  `json:"meeting_id"`
	Wxid           string  `json:"wxid"`
	SegmentID      *string `json:"segment_id"`
	Name           *string `json:"name,omitempty"`
	ReferralSource *string `json:"referral_source,omitempty"`
	IsMember       bool    `json:"is_member"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// CheckinListResponse wraps a list of checkins
type CheckinListResponse struct {
	Checkins []*CheckinResponse `json:"checkins"`
}

// ResetResponse reports what a segment reset did
type ResetResponse struct {
	Deleted int `json:"deleted"`
	Cleared int `json:"cleared"`
}

// ToResponse converts a Checkin model to a CheckinResponse DTO
func (c *Checkin) ToResponse() *CheckinResponse {
	return &CheckinResponse{
		ID:             c.ID,
		MeetingID:      c.MeetingID,
		Wxid:           c.Wxid,
		SegmentID:      c.SegmentID,
		Name:           c.Name,
		ReferralSource: c.ReferralSource,
		IsMember:       c.IsMember,
		CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:      c.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func toListResponse(checkins []*Checkin) *CheckinListResponse {
	resp := &CheckinListResponse{Checkins: make([]*CheckinResponse, len(checkins))}
	for i, c := range checkins {
		resp.Checkins[i] = c.ToResponse()
	}
	return resp
}
