package attendee

import "time"

// Type distinguishes member-bound attendees from guests
type Type string

const (
	TypeMember Type = "Member"
	TypeGuest  Type = "Guest"
)

// Attendee is a participant usable as a role-taker or feedback target.
// MemberID is set iff Type is TypeMember. Wxid is the chat identity bound to the attendee, if any.
type Attendee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	MemberID  *string   `json:"member_id,omitempty"`
	Wxid      *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// IsMember reports whether the attendee is bound to a member
func (a *Attendee) IsMember() bool {
	return a.Type == TypeMember && a.MemberID != nil
}
