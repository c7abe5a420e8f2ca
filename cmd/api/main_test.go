package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/do/v2"

	"github.com/fkhayef/clubhub/internal/auth"
	"github.com/fkhayef/clubhub/internal/config"
	"github.com/fkhayef/clubhub/internal/member"
	"github.com/fkhayef/clubhub/internal/store/memory"
)

const (
	testWebSecret  = "web-secret"
	testChatSecret = "chat-secret"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	db      *memory.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Env:              "test",
		StoreDriver:      config.StoreDriverMemory,
		WebJWTSecret:     testWebSecret,
		WebJWTAudience:   "authenticated",
		ChatJWTSecret:    testChatSecret,
		TimerSegmentType: "Timer",
	}
	injector, closeStore, err := setupDI(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to build dependency graph: %v", err)
	}
	t.Cleanup(closeStore)

	return &testServer{
		t:       t,
		handler: newRouter(injector),
		db:      do.MustInvoke[*memory.DB](injector),
	}
}

func (s *testServer) sign(secret string, claims jwt.Claims) string {
	s.t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		s.t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func (s *testServer) memberToken(memberID string) string {
	return s.sign(testWebSecret, jwt.RegisteredClaims{
		Subject:   memberID,
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
}

func (s *testServer) guestToken(wxid string) string {
	return s.sign(testChatSecret, &auth.ChatClaims{
		Type:             auth.ChatSessionType,
		Wxid:             wxid,
		UserType:         auth.UserTypeGuest,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope %q: %v", rec.Body.String(), err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("failed to decode data %q: %v", env.Data, err)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec := s.do(http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "clubhub_http_requests_total") {
		t.Fatalf("expected request metrics, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestMeetingLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.db.AddMember(member.Member{Username: "root", FullName: "Club Admin", IsAdmin: true})
	adminToken := s.memberToken(admin.ID)
	timerToken := s.guestToken("wx-timer")
	otherToken := s.guestToken("wx-other")

	rec := s.do(http.MethodPost, "/api/v1/meetings", adminToken, map[string]any{
		"date":   "2026-03-14",
		"theme":  "Bridges",
		"status": "published",
		"segments": []map[string]any{
			{"type": "Timer"},
			{"type": "Speech", "role_taker": map[string]any{"name": "Mia"}},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID       string `json:"id"`
		Segments []struct {
			ID string `json:"id"`
		} `json:"segments"`
	}
	decode(t, rec, &created)
	base := "/api/v1/meetings/" + created.ID
	timerSegment := created.Segments[0].ID
	speechSegment := created.Segments[1].ID

	if rec := s.do(http.MethodPost, "/api/v1/meetings", timerToken, map[string]any{"date": "2026-03-14"}); rec.Code != http.StatusForbidden {
		t.Fatalf("guests may not create meetings, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, base, "", nil); rec.Code != http.StatusOK {
		t.Fatalf("published meetings are public, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, base+"/checkins", timerToken, map[string]any{"segment_ids": []string{timerSegment}, "name": "Tom"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(http.MethodPost, base+"/checkins", "", map[string]any{}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous checkins are rejected, got %d", rec.Code)
	}

	var listed struct {
		CanControl bool `json:"can_control"`
	}
	decode(t, s.do(http.MethodGet, base+"/timings", timerToken, nil), &listed)
	if !listed.CanControl {
		t.Fatal("the timer must control timings")
	}

	timingBody := map[string]any{
		"segment_id":               speechSegment,
		"planned_duration_minutes": 7,
		"actual_start_time":        "2026-03-14T19:00:00Z",
		"actual_end_time":          "2026-03-14T19:07:10Z",
	}
	if rec := s.do(http.MethodPost, base+"/timings", otherToken, timingBody); rec.Code != http.StatusForbidden {
		t.Fatalf("non-timers are rejected, got %d", rec.Code)
	}
	rec = s.do(http.MethodPost, base+"/timings", timerToken, timingBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var timed struct {
		DotColor string `json:"dot_color"`
	}
	decode(t, rec, &timed)
	if timed.DotColor != "red" {
		t.Fatalf("expected red, got %s", timed.DotColor)
	}

	rec = s.do(http.MethodGet, base+"/attendance", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var attendance struct {
		GuestNames []string `json:"guest_names"`
	}
	decode(t, rec, &attendance)
	if len(attendance.GuestNames) != 2 {
		t.Fatalf("expected Mia and Tom, got %v", attendance.GuestNames)
	}

	if rec := s.do(http.MethodGet, "/api/v1/stats/dashboard?start_date=2026-03-01&end_date=2026-03-31", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("dashboard requires a token, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/api/v1/stats/dashboard?start_date=2026-03-01&end_date=2026-03-31", adminToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(http.MethodGet, "/api/v1/stats/dashboard?start_date=March", adminToken, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	if rec := s.do(http.MethodDelete, base, adminToken, nil); rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("expected the meeting to be deleted, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, base+"/timings", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestInvalidTokenIsRejectedOnProtectedRoutes(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/v1/members", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestVotingRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.db.AddMember(member.Member{Username: "root", FullName: "Club Admin", IsAdmin: true})
	adminToken := s.memberToken(admin.ID)
	guestToken := s.guestToken("wx-ann")

	rec := s.do(http.MethodPost, "/api/v1/meetings", adminToken, map[string]any{
		"date":   time.Now().UTC().Format("2006-01-02"),
		"status": "published",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)
	base := "/api/v1/meetings/" + created.ID

	if rec := s.do(http.MethodPut, base+"/votes/status", adminToken, map[string]any{"open": true}); rec.Code != http.StatusBadRequest {
		t.Fatalf("opening without a form is rejected, got %d", rec.Code)
	}
	if rec := s.do(http.MethodPut, base+"/votes/status", adminToken, map[string]any{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("the open field is required, got %d", rec.Code)
	}

	form := map[string]any{"votes": []map[string]any{
		{"category": "Best Speaker", "candidates": []map[string]any{{"name": "Mia"}, {"name": "Rui"}}},
	}}
	if rec := s.do(http.MethodPut, base+"/votes/form", guestToken, form); rec.Code != http.StatusForbidden {
		t.Fatalf("guests may not edit the vote form, got %d", rec.Code)
	}
	if rec := s.do(http.MethodPut, base+"/votes/form", adminToken, form); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(http.MethodPut, base+"/votes/status", adminToken, map[string]any{"open": true}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	ballot := map[string]any{"votes": []map[string]any{{"category": "Best Speaker", "name": "Mia"}}}
	if rec := s.do(http.MethodPost, base+"/votes", "", ballot); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	tally := func(token string) int {
		var listed struct {
			Categories []struct {
				Candidates []struct {
					Name  string `json:"name"`
					Count int    `json:"count"`
				} `json:"candidates"`
			} `json:"categories"`
		}
		decode(t, s.do(http.MethodGet, base+"/votes", token, nil), &listed)
		for _, cat := range listed.Categories {
			for _, c := range cat.Candidates {
				if c.Name == "Mia" {
					return c.Count
				}
			}
		}
		t.Fatal("Mia is missing from the ballot")
		return 0
	}
	if n := tally(adminToken); n != 1 {
		t.Fatalf("members see the tally, got %d", n)
	}
	if n := tally(""); n != 0 {
		t.Fatalf("anonymous callers see no tally, got %d", n)
	}

	awards := map[string]any{"awards": []map[string]any{{"category": "Best Speaker", "winner": "Mia"}}}
	if rec := s.do(http.MethodPut, base+"/awards", "", awards); rec.Code != http.StatusUnauthorized {
		t.Fatalf("saving awards requires a token, got %d", rec.Code)
	}
	if rec := s.do(http.MethodPut, base+"/awards", adminToken, awards); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var listed struct {
		Awards []struct {
			Winner string `json:"winner"`
		} `json:"awards"`
	}
	decode(t, s.do(http.MethodGet, base+"/awards", "", nil), &listed)
	if len(listed.Awards) != 1 || listed.Awards[0].Winner != "Mia" {
		t.Fatalf("unexpected awards: %+v", listed.Awards)
	}
}

func TestPostRoutes(t *testing.T) {
	s := newTestServer(t)
	author := s.db.AddMember(member.Member{Username: "rui", FullName: "Rui Zheng"})
	token := s.memberToken(author.ID)

	rec := s.do(http.MethodPost, "/api/v1/posts", token, map[string]any{"title": "Club Recap", "content": "# Hi"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Slug   string `json:"slug"`
		Author struct {
			Name string `json:"name"`
		} `json:"author"`
	}
	decode(t, rec, &created)
	if created.Slug != "club-recap" || created.Author.Name != "Rui Zheng" {
		t.Fatalf("unexpected post: %+v", created)
	}

	if rec := s.do(http.MethodGet, "/api/v1/posts/club-recap", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("private posts are hidden from anonymous callers, got %d", rec.Code)
	}
	if rec := s.do(http.MethodPatch, "/api/v1/posts/club-recap", token, map[string]any{"is_public": true}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(http.MethodGet, "/api/v1/posts/club-recap", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("public posts are readable by anyone, got %d", rec.Code)
	}
	if rec := s.do(http.MethodDelete, "/api/v1/posts/club-recap", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("deleting requires a token, got %d", rec.Code)
	}
}
