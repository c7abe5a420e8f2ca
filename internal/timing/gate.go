package timing

import (
	"context"

	"github.com/fkhayef/clubhub/internal/identity"
)

// RoleChecker answers whether a chat identity holds a checkin on a segment of a given type
type RoleChecker interface {
	HoldsRole(ctx context.Context, meetingID, wxid, segmentType string) (bool, error)
}

// Gate decides who may record timings for a meeting. It is evaluated on every request;
// the timer role can change hands mid-meeting.
type Gate struct {
	checkins    RoleChecker
	segmentType string
}

// NewGate creates a gate for holders of segments typed segmentType
func NewGate(checkins RoleChecker, segmentType string) *Gate {
	return &Gate{checkins: checkins, segmentType: segmentType}
}

// CanControl reports whether caller may record timings for the meeting.
// Admins always may; a caller with no chat identity never queries the store.
func (g *Gate) CanControl(ctx context.Context, meetingID string, caller identity.Caller) (bool, error) {
	if caller.IsAdmin {
		return true, nil
	}
	if caller.Wxid == nil || *caller.Wxid == "" {
		return false, nil
	}
	return g.checkins.HoldsRole(ctx, meetingID, *caller.Wxid, g.segmentType)
}
