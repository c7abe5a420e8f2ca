package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/identity"
)

type fakeVerifier map[string]identity.Identity

func (f fakeVerifier) Verify(_ context.Context, token string) (identity.Identity, error) {
	id, ok := f[token]
	if !ok {
		return nil, apperr.New(apperr.Unauthenticated, "token is invalid")
	}
	return id, nil
}

type fakeClassifier struct{}

func (fakeClassifier) Classify(_ context.Context, id identity.Identity) (identity.Caller, error) {
	caller := identity.Caller{Identity: id}
	if g, ok := id.(identity.Guest); ok {
		wxid := g.Wxid
		caller.Wxid = &wxid
	}
	return caller, nil
}

func serve(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_StoresCaller(t *testing.T) {
	verifier := fakeVerifier{"good": identity.Guest{Wxid: "wx-a"}}
	var got identity.Caller
	h := Authenticate(verifier, fakeClassifier{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetCaller(r.Context())
	}))

	serve(h, "Bearer good")
	if got.Wxid == nil || *got.Wxid != "wx-a" {
		t.Fatalf("expected guest caller wx-a, got %+v", got)
	}

	serve(h, "")
	if got.IsAuthenticated() {
		t.Fatalf("expected anonymous caller without a header, got %+v", got)
	}

	serve(h, "Bearer forged")
	if got.IsAuthenticated() {
		t.Fatalf("expected anonymous caller for a bad token, got %+v", got)
	}
}

func TestRequireAuth(t *testing.T) {
	verifier := fakeVerifier{"good": identity.Member{MemberID: "m1"}}
	h := Authenticate(verifier, fakeClassifier{})(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer good", http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"invalid", "Bearer forged", http.StatusUnauthorized},
		{"malformed", "Token good", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(h, tt.header); rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestGetCaller_DefaultsToAnonymous(t *testing.T) {
	caller := GetCaller(context.Background())
	if _, ok := caller.Identity.(identity.Anonymous); !ok {
		t.Fatalf("expected anonymous identity, got %T", caller.Identity)
	}
}
