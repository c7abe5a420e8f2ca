package identity

import (
	"context"
	"fmt"
)

// Binding is the attendee record bound to a member, if any
type Binding struct {
	AttendeeID string
	Wxid       *string
}

// BindingLookup finds the attendee bound to a member. A missing binding is (nil, nil).
type BindingLookup interface {
	BindingForMember(ctx context.Context, memberID string) (*Binding, error)
}

// AdminLookup reports whether a member has the admin flag. A missing member is not an admin.
type AdminLookup interface {
	IsAdmin(ctx context.Context, memberID string) (bool, error)
}

// Classifier derives wxid, attendee id and admin flag from an Identity.
// It only reads; it never creates attendees.
type Classifier struct {
	bindings BindingLookup
	admins   AdminLookup
}

// NewClassifier creates a new identity classifier
func NewClassifier(bindings BindingLookup, admins AdminLookup) *Classifier {
	return &Classifier{bindings: bindings, admins: admins}
}

// Wxid returns the chat identity of id, or nil when none is bound
func (c *Classifier) Wxid(ctx context.Context, id Identity) (*string, error) {
	switch v := id.(type) {
	case Guest:
		wxid := v.Wxid
		return &wxid, nil
	case Member:
		b, err := c.bindings.BindingForMember(ctx, v.MemberID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up member binding: %w", err)
		}
		if b == nil {
			return nil, nil
		}
		return b.Wxid, nil
	default:
		return nil, nil
	}
}

// AttendeeID returns the attendee id of id, or nil when none is linked
func (c *Classifier) AttendeeID(ctx context.Context, id Identity) (*string, error) {
	switch v := id.(type) {
	case Guest:
		return v.AttendeeID, nil
	case Member:
		b, err := c.bindings.BindingForMember(ctx, v.MemberID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up member binding: %w", err)
		}
		if b == nil {
			return nil, nil
		}
		attendeeID := b.AttendeeID
		return &attendeeID, nil
	default:
		return nil, nil
	}
}

// IsAdmin is true only for Member identities flagged as admin
func (c *Classifier) IsAdmin(ctx context.Context, id Identity) (bool, error) {
	switch v := id.(type) {
	case Member:
		ok, err := c.admins.IsAdmin(ctx, v.MemberID)
		if err != nil {
			return false, fmt.Errorf("failed to look up admin flag: %w", err)
		}
		return ok, nil
	default:
		return false, nil
	}
}

// Classify resolves every fact about id in one pass
func (c *Classifier) Classify(ctx context.Context, id Identity) (Caller, error) {
	switch v := id.(type) {
	case Guest:
		wxid := v.Wxid
		return Caller{Identity: v, Wxid: &wxid, AttendeeID: v.AttendeeID}, nil
	case Member:
		caller := Caller{Identity: v}
		b, err := c.bindings.BindingForMember(ctx, v.MemberID)
		if err != nil {
			return Caller{}, fmt.Errorf("failed to look up member binding: %w", err)
		}
		if b != nil {
			attendeeID := b.AttendeeID
			caller.AttendeeID = &attendeeID
			caller.Wxid = b.Wxid
		}
		if caller.IsAdmin, err = c.admins.IsAdmin(ctx, v.MemberID); err != nil {
			return Caller{}, fmt.Errorf("failed to look up admin flag: %w", err)
		}
		return caller, nil
	default:
		return AnonymousCaller(), nil
	}
}
