package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/identity"
)

const (
	webSecret  = "web-secret"
	chatSecret = "chat-secret"
	memberID   = "6f1c2b4e-3d7a-4c5e-9b8f-0a1b2c3d4e5f"
)

type fakeAttendees map[string]*attendee.Attendee

func (f fakeAttendees) GetByWxid(_ context.Context, wxid string) (*attendee.Attendee, error) {
	return f[wxid], nil
}

func sign(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func expiresIn(d time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(d))}
}

func newVerifier(attendees fakeAttendees) *Verifier {
	return NewVerifier(webSecret, chatSecret, "authenticated", attendees)
}

func TestVerify_WebSession(t *testing.T) {
	rc := expiresIn(time.Hour)
	rc.Subject = memberID
	rc.Audience = jwt.ClaimStrings{"authenticated"}

	id, err := newVerifier(nil).Verify(context.Background(), sign(t, webSecret, rc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, ok := id.(identity.Member); !ok || m.MemberID != memberID {
		t.Fatalf("expected member %s, got %#v", memberID, id)
	}
}

func TestVerify_WebSessionWrongAudience(t *testing.T) {
	rc := expiresIn(time.Hour)
	rc.Subject = memberID
	rc.Audience = jwt.ClaimStrings{"anon"}

	if _, err := newVerifier(nil).Verify(context.Background(), sign(t, webSecret, rc)); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_WebSessionExpired(t *testing.T) {
	rc := expiresIn(-time.Hour)
	rc.Subject = memberID
	rc.Audience = jwt.ClaimStrings{"authenticated"}

	if _, err := newVerifier(nil).Verify(context.Background(), sign(t, webSecret, rc)); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_ChatGuest(t *testing.T) {
	claims := &ChatClaims{
		Type:             ChatSessionType,
		Wxid:             "wx-guest",
		UserType:         UserTypeGuest,
		AttendeeID:       "att-1",
		RegisteredClaims: expiresIn(time.Hour),
	}

	id, err := newVerifier(nil).Verify(context.Background(), sign(t, chatSecret, claims))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g, ok := id.(identity.Guest)
	if !ok || g.Wxid != "wx-guest" || g.AttendeeID == nil || *g.AttendeeID != "att-1" {
		t.Fatalf("unexpected identity: %#v", id)
	}
}

func TestVerify_ChatMember(t *testing.T) {
	claims := &ChatClaims{
		Type:             ChatSessionType,
		Wxid:             "wx-member",
		UserType:         UserTypeMember,
		UID:              memberID,
		RegisteredClaims: expiresIn(time.Hour),
	}

	id, err := newVerifier(nil).Verify(context.Background(), sign(t, chatSecret, claims))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, ok := id.(identity.Member); !ok || m.MemberID != memberID {
		t.Fatalf("unexpected identity: %#v", id)
	}
}

func TestVerify_LegacyChatSession(t *testing.T) {
	mid := memberID
	attendees := fakeAttendees{
		"wx-bound": {ID: "att-m", Type: attendee.TypeMember, MemberID: &mid},
		"wx-guest": {ID: "att-g", Type: attendee.TypeGuest},
	}
	v := newVerifier(attendees)

	tests := []struct {
		wxid  string
		check func(identity.Identity) bool
	}{
		{"wx-bound", func(id identity.Identity) bool {
			m, ok := id.(identity.Member)
			return ok && m.MemberID == memberID
		}},
		{"wx-guest", func(id identity.Identity) bool {
			g, ok := id.(identity.Guest)
			return ok && g.AttendeeID != nil && *g.AttendeeID == "att-g"
		}},
		{"wx-unknown", func(id identity.Identity) bool {
			g, ok := id.(identity.Guest)
			return ok && g.Wxid == "wx-unknown" && g.AttendeeID == nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.wxid, func(t *testing.T) {
			claims := &ChatClaims{Type: ChatSessionType, Wxid: tt.wxid, RegisteredClaims: expiresIn(time.Hour)}
			id, err := v.Verify(context.Background(), sign(t, chatSecret, claims))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(id) {
				t.Fatalf("unexpected identity: %#v", id)
			}
		})
	}
}

func TestVerify_ChatTokenWrongType(t *testing.T) {
	claims := &ChatClaims{Type: "refresh", Wxid: "wx", UserType: UserTypeGuest, RegisteredClaims: expiresIn(time.Hour)}

	if _, err := newVerifier(nil).Verify(context.Background(), sign(t, chatSecret, claims)); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_ForeignSecret(t *testing.T) {
	claims := &ChatClaims{Type: ChatSessionType, Wxid: "wx", UserType: UserTypeGuest, RegisteredClaims: expiresIn(time.Hour)}

	if _, err := newVerifier(nil).Verify(context.Background(), sign(t, "someone-else", claims)); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := newVerifier(nil).Verify(context.Background(), "not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
