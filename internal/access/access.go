package access

import (
	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/identity"
)

// Common errors
var (
	ErrUnauthenticated = apperr.New(apperr.Unauthenticated, "authentication required")
	ErrNoWxid          = apperr.New(apperr.PermissionDenied, "a bound chat identity is required")
	ErrMembersOnly     = apperr.New(apperr.PermissionDenied, "only members can perform this action")
	ErrNotAuthor       = apperr.New(apperr.PermissionDenied, "only the author or an admin can modify this feedback")
	ErrNotOwner        = apperr.New(apperr.PermissionDenied, "only the creator or an admin can perform this action")
)

// Scope is how much of a meeting's records a caller may read
type Scope int

const (
	ScopeNone Scope = iota
	ScopeOwn
	ScopeAll
)

// CheckinFilter restricts which checkins a caller may read
type CheckinFilter struct {
	Scope Scope
	Wxid  string
}

// CheckinReadFilter: members see every checkin, guests only their own, anonymous callers nothing
func CheckinReadFilter(c identity.Caller) CheckinFilter {
	switch v := c.Identity.(type) {
	case identity.Member:
		return CheckinFilter{Scope: ScopeAll}
	case identity.Guest:
		return CheckinFilter{Scope: ScopeOwn, Wxid: v.Wxid}
	default:
		return CheckinFilter{Scope: ScopeNone}
	}
}

// Allows reports whether a checkin reported by wxid passes the filter
func (f CheckinFilter) Allows(wxid string) bool {
	switch f.Scope {
	case ScopeAll:
		return true
	case ScopeOwn:
		return wxid == f.Wxid
	default:
		return false
	}
}

// FeedbackFilter restricts which feedback a caller may read. When Scope is ScopeOwn a row is
// visible if it was authored by FromWxid or addressed to ToAttendeeID. Type and SegmentID
// only narrow the visible set.
type FeedbackFilter struct {
	Scope        Scope
	FromWxid     *string
	ToAttendeeID *string
	Type         *string
	SegmentID    *string
}

// FeedbackReadFilter builds the visibility filter for c, narrowed by the optional type and segment
func FeedbackReadFilter(c identity.Caller, feedbackType, segmentID *string) FeedbackFilter {
	f := FeedbackFilter{Type: feedbackType, SegmentID: segmentID}

	switch c.Identity.(type) {
	case identity.Member, identity.Guest:
	default:
		return f
	}

	switch {
	case c.IsAdmin:
		f.Scope = ScopeAll
	case c.Wxid == nil && c.AttendeeID == nil:
		f.Scope = ScopeNone
	default:
		f.Scope = ScopeOwn
		f.FromWxid = c.Wxid
		f.ToAttendeeID = c.AttendeeID
	}
	return f
}

// Allows reports whether a feedback row with these fields passes the filter
func (f FeedbackFilter) Allows(fromWxid string, toAttendeeID *string, feedbackType string, segmentID *string) bool {
	if f.Type != nil && *f.Type != feedbackType {
		return false
	}
	if f.SegmentID != nil && (segmentID == nil || *segmentID != *f.SegmentID) {
		return false
	}

	switch f.Scope {
	case ScopeAll:
		return true
	case ScopeOwn:
		if f.FromWxid != nil && fromWxid == *f.FromWxid {
			return true
		}
		return f.ToAttendeeID != nil && toAttendeeID != nil && *toAttendeeID == *f.ToAttendeeID
	default:
		return false
	}
}

// CanWriteCheckin returns the wxid a caller checks in as. The wxid always comes from the
// verified identity, never from the request.
func CanWriteCheckin(c identity.Caller) (string, error) {
	return boundWxid(c)
}

// CanResetCheckin allows only Member identities to release a segment checkin
func CanResetCheckin(c identity.Caller) error {
	switch c.Identity.(type) {
	case identity.Member:
		return nil
	case identity.Guest:
		return ErrMembersOnly
	default:
		return ErrUnauthenticated
	}
}

// CanWriteFeedback returns the wxid recorded as the author of new feedback
func CanWriteFeedback(c identity.Caller) (string, error) {
	return boundWxid(c)
}

// CanMutateFeedback allows the author of the feedback or an admin. Admins need no wxid.
func CanMutateFeedback(c identity.Caller, authorWxid string) error {
	switch c.Identity.(type) {
	case identity.Member, identity.Guest:
	default:
		return ErrUnauthenticated
	}
	if c.IsAdmin {
		return nil
	}
	if c.Wxid == nil {
		return ErrNoWxid
	}
	if *c.Wxid != authorWxid {
		return ErrNotAuthor
	}
	return nil
}

// CanManageMeetings allows Member identities to author meetings
func CanManageMeetings(c identity.Caller) error {
	switch c.Identity.(type) {
	case identity.Member:
		return nil
	case identity.Guest:
		return ErrMembersOnly
	default:
		return ErrUnauthenticated
	}
}

// CanViewDashboard allows Member identities to read club statistics
func CanViewDashboard(c identity.Caller) error {
	return CanManageMeetings(c)
}

// CanManageVotes allows Member identities to set awards, the vote form and the ballot status
func CanManageVotes(c identity.Caller) error {
	return CanManageMeetings(c)
}

// CanSeeVoteCounts reports whether c may read vote tallies. Others see candidates only.
func CanSeeVoteCounts(c identity.Caller) bool {
	return c.IsMember()
}

// CanWritePosts allows Member identities to publish blog posts
func CanWritePosts(c identity.Caller) error {
	return CanManageMeetings(c)
}

// CanMutatePost allows the post's author or an admin
func CanMutatePost(c identity.Caller, authorID string) error {
	return CanDeleteMeeting(c, &authorID)
}

// CanDeleteMeeting allows the creating member or an admin
func CanDeleteMeeting(c identity.Caller, createdBy *string) error {
	if err := CanManageMeetings(c); err != nil {
		return err
	}
	if c.IsAdmin {
		return nil
	}
	memberID, _ := c.MemberID()
	if createdBy == nil || *createdBy != memberID {
		return ErrNotOwner
	}
	return nil
}

func boundWxid(c identity.Caller) (string, error) {
	switch c.Identity.(type) {
	case identity.Member, identity.Guest:
	default:
		return "", ErrUnauthenticated
	}
	if c.Wxid == nil || *c.Wxid == "" {
		return "", ErrNoWxid
	}
	return *c.Wxid, nil
}
