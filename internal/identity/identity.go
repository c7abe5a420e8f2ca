package identity

// Identity is the resolved caller of a request. It is one of Anonymous, Member or Guest;
// every decision point switches over these three cases.
type Identity interface {
	identity()
}

// Anonymous is a request without a valid bearer token
type Anonymous struct{}

// Member is a registered club user authenticated by the web session token
type Member struct {
	MemberID string
}

// Guest is a chat-app identity. AttendeeID is set when the chat session is linked to an attendee.
type Guest struct {
	Wxid       string
	AttendeeID *string
}

func (Anonymous) identity() {}
func (Member) identity()    {}
func (Guest) identity()     {}

// IsMember reports whether id is a Member identity
func IsMember(id Identity) bool {
	_, ok := id.(Member)
	return ok
}

// Kind returns a short label for logs and responses
func Kind(id Identity) string {
	switch id.(type) {
	case Member:
		return "member"
	case Guest:
		return "guest"
	default:
		return "anonymous"
	}
}

// Caller is an Identity together with the facts the access rules need,
// computed once per request by the Classifier.
type Caller struct {
	Identity   Identity
	Wxid       *string
	AttendeeID *string
	IsAdmin    bool
}

// AnonymousCaller is the caller of an unauthenticated request
func AnonymousCaller() Caller {
	return Caller{Identity: Anonymous{}}
}

// IsAuthenticated reports whether the caller presented a valid token
func (c Caller) IsAuthenticated() bool {
	switch c.Identity.(type) {
	case Member, Guest:
		return true
	default:
		return false
	}
}

// IsMember reports whether the caller is a Member identity
func (c Caller) IsMember() bool {
	return IsMember(c.Identity)
}

// MemberID returns the member id of a Member caller
func (c Caller) MemberID() (string, bool) {
	m, ok := c.Identity.(Member)
	if !ok {
		return "", false
	}
	return m.MemberID, true
}
