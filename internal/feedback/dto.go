package feedback

// CreateFeedbackRequest is the body of POST /meetings/{meetingID}/feedbacks
type CreateFeedbackRequest struct {
	Type         Type    `json:"type"`
	Value        string  `json:"value"`
	SegmentID    *string `json:"segment_id,omitempty"`
	ToAttendeeID *string `json:"to_attendee_id,omitempty"`
}

// UpdateFeedbackRequest is the body of PUT /meetings/{meetingID}/feedbacks/{feedbackID}
type UpdateFeedbackRequest struct {
	Value        string  `json:"value"`
	SegmentID    *string `json:"segment_id,omitempty"`
	ToAttendeeID *string `json:"to_attendee_id,omitempty"`
}

// ExperienceRequest replaces the caller's four experience notes for a meeting.
// Omitted or blank entries are removed.
type ExperienceRequest struct {
	Opening *string `json:"opening,omitempty"`
	Peak    *string `json:"peak,omitempty"`
	Valley  *string `json:"valley,omitempty"`
	Ending  *string `json:"ending,omitempty"`
}

// FeedbackResponse represents feedback in API responses
type FeedbackResponse struct {
	ID           string  `json:"id"`
	MeetingID    string  `json:"meeting_id"`
	SegmentID    *string `json:"segment_id,omitempty"`
	Type         Type    `json:"type"`
	Value        string  `json:"value"`
	FromWxid     string  `json:"from_wxid"`
	ToAttendeeID *string `json:"to_attendee_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// FeedbackListResponse wraps a list of feedback
type FeedbackListResponse struct {
	Feedbacks []*FeedbackResponse `json:"feedbacks"`
}

// ToResponse converts a Feedback model to a FeedbackResponse DTO
func (f *Feedback) ToResponse() *FeedbackResponse {
	return &FeedbackResponse{
		ID:           f.ID,
		MeetingID:    f.MeetingID,
		SegmentID:    f.SegmentID,
		Type:         f.Type,
		Value:        f.Value,
		FromWxid:     f.FromWxid,
		ToAttendeeID: f.ToAttendeeID,
		CreatedAt:    f.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    f.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func toListResponse(feedbacks []*Feedback) *FeedbackListResponse {
	resp := &FeedbackListResponse{Feedbacks: make([]*FeedbackResponse, len(feedbacks))}
	for i, f := range feedbacks {
		resp.Feedbacks[i] = f.ToResponse()
	}
	return resp
}

func (r ExperienceRequest) entries() map[Type]*string {
	return map[Type]*string{
		TypeExperienceOpening: r.Opening,
		TypeExperiencePeak:    r.Peak,
		TypeExperienceValley:  r.Valley,
		TypeExperienceEnding:  r.Ending,
	}
}
