package meeting

import "github.com/fkhayef/clubhub/internal/attendee"

const dateLayout = "2006-01-02"

// AttendeeRef names a manager or role-taker. MemberID wins over Name when both are set.
type AttendeeRef struct {
	ID       *string `json:"id,omitempty"`
	Name     string  `json:"name"`
	MemberID *string `json:"member_id,omitempty"`
}

// Reference returns the string handed to the attendee resolver
func (a *AttendeeRef) Reference() string {
	if a.MemberID != nil && *a.MemberID != "" {
		return *a.MemberID
	}
	return a.Name
}

// SegmentRequest is one agenda slot in a create or update request
type SegmentRequest struct {
	ID                string       `json:"id"`
	Type              string       `json:"type"`
	StartTime         string       `json:"start_time"`
	Duration          string       `json:"duration"`
	EndTime           string       `json:"end_time"`
	RoleTaker         *AttendeeRef `json:"role_taker,omitempty"`
	Title             string       `json:"title"`
	Content           string       `json:"content"`
	RelatedSegmentIDs []string     `json:"related_segment_ids"`
}

// MeetingRequest is the body of POST /meetings and PUT /meetings/{id}
type MeetingRequest struct {
	No           *int             `json:"no,omitempty"`
	Type         string           `json:"type"`
	Theme        string           `json:"theme"`
	Manager      *AttendeeRef     `json:"manager,omitempty"`
	Date         string           `json:"date"`
	StartTime    string           `json:"start_time"`
	EndTime      string           `json:"end_time"`
	Location     string           `json:"location"`
	Introduction string           `json:"introduction"`
	Status       *Status          `json:"status,omitempty"`
	Segments     []SegmentRequest `json:"segments"`
}

// StatusRequest is the body of PUT /meetings/{id}/status
type StatusRequest struct {
	Status Status `json:"status"`
}

// AttendeeResponse is an attendee embedded in a meeting response
type AttendeeResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	MemberID *string `json:"member_id,omitempty"`
}

// SegmentResponse represents a segment in a meeting response
type SegmentResponse struct {
	ID                string            `json:"id"`
	Type              string            `json:"type"`
	StartTime         string            `json:"start_time"`
	Duration          string            `json:"duration"`
	EndTime           string            `json:"end_time"`
	RoleTaker         *AttendeeResponse `json:"role_taker,omitempty"`
	Title             string            `json:"title"`
	Content           string            `json:"content"`
	RelatedSegmentIDs []string          `json:"related_segment_ids"`
}

// MeetingResponse represents the response for a meeting
type MeetingResponse struct {
	ID           string             `json:"id"`
	No           *int               `json:"no,omitempty"`
	Type         string             `json:"type"`
	Theme        string             `json:"theme"`
	Manager      *AttendeeResponse  `json:"manager,omitempty"`
	Date         string             `json:"date"`
	StartTime    string             `json:"start_time"`
	EndTime      string             `json:"end_time"`
	Location     string             `json:"location"`
	Introduction string             `json:"introduction"`
	Status       Status             `json:"status"`
	CreatedAt    string             `json:"created_at"`
	Segments     []*SegmentResponse `json:"segments,omitempty"`
}

func attendeeResponse(id *string, attendees map[string]*attendee.Attendee) *AttendeeResponse {
	if id == nil {
		return nil
	}
	a, ok := attendees[*id]
	if !ok {
		return &AttendeeResponse{ID: *id}
	}
	return &AttendeeResponse{ID: a.ID, Name: a.Name, MemberID: a.MemberID}
}

// ToResponse converts a Meeting to a MeetingResponse, filling attendee names from attendees
func (m *Meeting) ToResponse(attendees map[string]*attendee.Attendee) *MeetingResponse {
	resp := &MeetingResponse{
		ID:           m.ID,
		No:           m.No,
		Type:         m.Type,
		Theme:        m.Theme,
		Manager:      attendeeResponse(m.ManagerID, attendees),
		Date:         m.Date.Format(dateLayout),
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		Location:     m.Location,
		Introduction: m.Introduction,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, s := range m.Segments {
		related := s.RelatedSegmentIDs
		if related == nil {
			related = []string{}
		}
		resp.Segments = append(resp.Segments, &SegmentResponse{
			ID:                s.ID,
			Type:              s.Type,
			StartTime:         s.StartTime,
			Duration:          s.Duration,
			EndTime:           s.EndTime,
			RoleTaker:         attendeeResponse(s.RoleTakerID, attendees),
			Title:             s.Title,
			Content:           s.Content,
			RelatedSegmentIDs: related,
		})
	}
	return resp
}

// AttendeeIDs returns every attendee referenced by the meeting
func (m *Meeting) AttendeeIDs() []string {
	var ids []string
	if m.ManagerID != nil {
		ids = append(ids, *m.ManagerID)
	}
	for _, s := range m.Segments {
		if s.RoleTakerID != nil {
			ids = append(ids, *s.RoleTakerID)
		}
	}
	return ids
}
