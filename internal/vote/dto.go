package vote

// AwardRequest names a category winner. Winner is a member id or a guest name.
type AwardRequest struct {
	Category string `json:"category"`
	Winner   string `json:"winner"`
}

// AwardsRequest is the body of PUT /meetings/{meetingID}/awards
type AwardsRequest struct {
	Awards []AwardRequest `json:"awards"`
}

// CandidateRequest is one nominee of the vote form
type CandidateRequest struct {
	Name    string  `json:"name"`
	Segment *string `json:"segment,omitempty"`
}

// CategoryRequest lists the nominees of one category
type CategoryRequest struct {
	Category   string             `json:"category"`
	Candidates []CandidateRequest `json:"candidates"`
}

// VoteFormRequest is the body of PUT /meetings/{meetingID}/votes/form
type VoteFormRequest struct {
	Votes []CategoryRequest `json:"votes"`
}

// VoteStatusRequest is the body of PUT /meetings/{meetingID}/votes/status
type VoteStatusRequest struct {
	Open *bool `json:"open"`
}

// BallotRequest is the body of POST /meetings/{meetingID}/votes
type BallotRequest struct {
	Votes []Pick `json:"votes"`
}

// AwardResponse represents an award in API responses
type AwardResponse struct {
	ID         string `json:"id"`
	MeetingID  string `json:"meeting_id"`
	Category   string `json:"category"`
	AttendeeID string `json:"attendee_id"`
	Winner     string `json:"winner"`
}

// AwardListResponse wraps a meeting's awards
type AwardListResponse struct {
	Awards []*AwardResponse `json:"awards"`
}

// CandidateResponse represents a nominee. Count is zero for callers who may not see tallies.
type CandidateResponse struct {
	Name    string  `json:"name"`
	Segment *string `json:"segment,omitempty"`
	Count   int     `json:"count"`
}

// CategoryResponse lists the nominees of one category
type CategoryResponse struct {
	Category   string               `json:"category"`
	Candidates []*CandidateResponse `json:"candidates"`
}

// VoteListResponse wraps a meeting's voting categories
type VoteListResponse struct {
	Categories []*CategoryResponse `json:"categories"`
}

// VoteStatusResponse represents a ballot status
type VoteStatusResponse struct {
	MeetingID string `json:"meeting_id"`
	Open      bool   `json:"open"`
}

// ToResponse converts an Award model to an AwardResponse DTO
func (a *Award) ToResponse() *AwardResponse {
	return &AwardResponse{
		ID:         a.ID,
		MeetingID:  a.MeetingID,
		Category:   a.Category,
		AttendeeID: a.AttendeeID,
		Winner:     a.Winner,
	}
}

// ToResponse converts a Status model to a VoteStatusResponse DTO
func (s *Status) ToResponse() *VoteStatusResponse {
	return &VoteStatusResponse{MeetingID: s.MeetingID, Open: s.Open}
}

func toAwardListResponse(awards []*Award) *AwardListResponse {
	resp := &AwardListResponse{Awards: make([]*AwardResponse, len(awards))}
	for i, a := range awards {
		resp.Awards[i] = a.ToResponse()
	}
	return resp
}

func toVoteListResponse(categories []*Category) *VoteListResponse {
	resp := &VoteListResponse{Categories: make([]*CategoryResponse, len(categories))}
	for i, cat := range categories {
		c := &CategoryResponse{Category: cat.Name, Candidates: make([]*CandidateResponse, len(cat.Candidates))}
		for j, cand := range cat.Candidates {
			c.Candidates[j] = &CandidateResponse{Name: cand.Name, Segment: cand.Segment, Count: cand.Count}
		}
		resp.Categories[i] = c
	}
	return resp
}
