package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/identity"
)

var (
	ErrTokenInvalid = apperr.New(apperr.Unauthenticated, "token is invalid")
	ErrTokenExpired = apperr.New(apperr.Unauthenticated, "token has expired")
)

// ChatSessionType is the type claim of chat-app session tokens
const ChatSessionType = "chat_session"

// UserType tells which identity a chat session stands for
type UserType string

const (
	UserTypeMember UserType = "member"
	UserTypeGuest  UserType = "guest"
)

// ChatClaims are the claims of a chat-app session token. Tokens issued before
// UserType existed carry only Wxid.
type ChatClaims struct {
	Type       string   `json:"type"`
	Wxid       string   `json:"wxid"`
	UserType   UserType `json:"user_type,omitempty"`
	UID        string   `json:"uid,omitempty"`
	AttendeeID string   `json:"attendee_id,omitempty"`
	jwt.RegisteredClaims
}

// WxidLookup finds the attendee bound to a chat identity, returning (nil, nil) when unbound
type WxidLookup interface {
	GetByWxid(ctx context.Context, wxid string) (*attendee.Attendee, error)
}

// Verifier validates bearer tokens from the web-session and chat-session issuers
type Verifier struct {
	webSecret  []byte
	chatSecret []byte
	audience   string
	attendees  WxidLookup
}

// NewVerifier creates a verifier for both issuers
func NewVerifier(webSecret, chatSecret, audience string, attendees WxidLookup) *Verifier {
	return &Verifier{
		webSecret:  []byte(webSecret),
		chatSecret: []byte(chatSecret),
		audience:   audience,
		attendees:  attendees,
	}
}

// Verify resolves token into a Member or Guest identity
func (v *Verifier) Verify(ctx context.Context, token string) (identity.Identity, error) {
	chat, chatErr := v.parseChat(token)
	if chatErr == nil {
		return v.chatIdentity(ctx, chat)
	}
	if errors.Is(chatErr, ErrTokenExpired) {
		return nil, chatErr
	}

	memberID, webErr := v.parseWeb(token)
	if webErr != nil {
		return nil, webErr
	}
	return identity.Member{MemberID: memberID}, nil
}

func hmacKey(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	}
}

func mapParseError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrTokenInvalid
}

func (v *Verifier) parseChat(tokenString string) (*ChatClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ChatClaims{}, hmacKey(v.chatSecret),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := token.Claims.(*ChatClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Type != ChatSessionType || claims.Wxid == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (v *Verifier) parseWeb(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, hmacKey(v.webSecret),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", mapParseError(err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}
	memberID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", ErrTokenInvalid
	}
	return memberID.String(), nil
}

func (v *Verifier) chatIdentity(ctx context.Context, claims *ChatClaims) (identity.Identity, error) {
	switch claims.UserType {
	case UserTypeMember:
		if _, err := uuid.Parse(claims.UID); err != nil {
			return nil, ErrTokenInvalid
		}
		return identity.Member{MemberID: claims.UID}, nil
	case UserTypeGuest:
		guest := identity.Guest{Wxid: claims.Wxid}
		if claims.AttendeeID != "" {
			attendeeID := claims.AttendeeID
			guest.AttendeeID = &attendeeID
		}
		return guest, nil
	case "":
		return v.legacyIdentity(ctx, claims.Wxid)
	default:
		return nil, ErrTokenInvalid
	}
}

// legacyIdentity classifies a session without user_type by the attendee bound to its wxid
func (v *Verifier) legacyIdentity(ctx context.Context, wxid string) (identity.Identity, error) {
	a, err := v.attendees.GetByWxid(ctx, wxid)
	if err != nil {
		return nil, fmt.Errorf("failed to look up attendee by wxid: %w", err)
	}
	if a == nil {
		return identity.Guest{Wxid: wxid}, nil
	}
	if a.IsMember() {
		return identity.Member{MemberID: *a.MemberID}, nil
	}
	attendeeID := a.ID
	return identity.Guest{Wxid: wxid, AttendeeID: &attendeeID}, nil
}
