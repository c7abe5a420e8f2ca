package member

// MemberResponse represents the response for a single member
type MemberResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

// WhoamiResponse describes the caller of the request
type WhoamiResponse struct {
	Kind       string          `json:"kind"`
	Member     *MemberResponse `json:"member,omitempty"`
	Wxid       *string         `json:"wxid,omitempty"`
	AttendeeID *string         `json:"attendee_id,omitempty"`
	IsAdmin    bool            `json:"is_admin"`
}

// IsAdminResponse is the body of GET /members/is-admin
type IsAdminResponse struct {
	IsAdmin bool `json:"is_admin"`
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		Username:  m.Username,
		FullName:  m.FullName,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
