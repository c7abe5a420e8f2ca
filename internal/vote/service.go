package vote

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fkhayef/clubhub/internal/access"
	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/internal/meeting"
)

// Common errors
var (
	ErrEmptyCategory      = apperr.New(apperr.Invalid, "category is required")
	ErrEmptyWinner        = apperr.New(apperr.Invalid, "award winner is required")
	ErrEmptyCandidate     = apperr.New(apperr.Invalid, "candidate name is required")
	ErrDuplicateCandidate = apperr.New(apperr.Invalid, "a candidate is listed twice in one category")
	ErrEmptyBallot        = apperr.New(apperr.Invalid, "at least one vote is required")
	ErrDuplicatePick      = apperr.New(apperr.Invalid, "only one vote per category is allowed")
	ErrNoVoteForm         = apperr.New(apperr.Invalid, "cannot open voting: no vote options defined")
	ErrVotingClosed       = apperr.New(apperr.Conflict, "voting is closed for this meeting")
	ErrMeetingEnded       = apperr.New(apperr.Conflict, "voting has ended with the meeting")
	ErrUnknownCandidate   = apperr.New(apperr.InvalidReference, "none of the votes name a candidate of this meeting")
)

// MeetingLookup is the part of the meeting service voting depends on
type MeetingLookup interface {
	GetVisible(ctx context.Context, id string, caller identity.Caller) (*meeting.Meeting, error)
}

// AttendeeResolver turns an award winner reference into an attendee id
type AttendeeResolver interface {
	Resolve(ctx context.Context, reference string) (string, error)
}

// AttendeeDirectory loads award winners for responses
type AttendeeDirectory interface {
	ListByIDs(ctx context.Context, ids []string) (map[string]*attendee.Attendee, error)
}

// Service handles awards and voting business logic
type Service struct {
	store     Store
	meetings  MeetingLookup
	resolver  AttendeeResolver
	attendees AttendeeDirectory
	now       func() time.Time
}

// NewService creates a new vote service
func NewService(store Store, meetings MeetingLookup, resolver AttendeeResolver, attendees AttendeeDirectory) *Service {
	return &Service{
		store:     store,
		meetings:  meetings,
		resolver:  resolver,
		attendees: attendees,
		now:       time.Now,
	}
}

// WithClock replaces the clock that decides whether a meeting has ended
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Awards returns the meeting's awards with their winners' names
func (s *Service) Awards(ctx context.Context, caller identity.Caller, meetingID string) ([]*Award, error) {
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}
	awards, err := s.store.ListAwards(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	return s.withWinners(ctx, awards)
}

// SaveAwards replaces every award of the meeting. Winners resolve like role-takers:
// a member id or a guest name.
func (s *Service) SaveAwards(ctx context.Context, caller identity.Caller, meetingID string, req *AwardsRequest) ([]*Award, error) {
	if err := access.CanManageVotes(caller); err != nil {
		return nil, err
	}
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	rows := make([]*Award, 0, len(req.Awards))
	for i, a := range req.Awards {
		category := strings.TrimSpace(a.Category)
		if category == "" {
			return nil, ErrEmptyCategory
		}
		if strings.TrimSpace(a.Winner) == "" {
			return nil, ErrEmptyWinner
		}
		attendeeID, err := s.resolver.Resolve(ctx, a.Winner)
		if err != nil {
			return nil, err
		}
		rows = append(rows, &Award{MeetingID: meetingID, Category: category, AttendeeID: attendeeID, SortOrder: i})
	}

	saved, err := s.store.ReplaceAwards(ctx, meetingID, rows)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "awards saved", "meeting_id", meetingID, "count", len(saved))
	return s.withWinners(ctx, saved)
}

// Ballot returns the meeting's voting categories. Tallies are zeroed for callers who may not see them.
func (s *Service) Ballot(ctx context.Context, caller identity.Caller, meetingID string) ([]*Category, error) {
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}
	candidates, err := s.store.ListCandidates(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	return Group(mask(caller, candidates)), nil
}

// SaveForm replaces the meeting's vote form. Candidates kept across saves keep their votes.
func (s *Service) SaveForm(ctx context.Context, caller identity.Caller, meetingID string, req *VoteFormRequest) ([]*Category, error) {
	if err := access.CanManageVotes(caller); err != nil {
		return nil, err
	}
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	var rows []*Candidate
	seen := make(map[Pick]bool)
	for _, cat := range req.Votes {
		category := strings.TrimSpace(cat.Category)
		if category == "" {
			return nil, ErrEmptyCategory
		}
		for _, c := range cat.Candidates {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				return nil, ErrEmptyCandidate
			}
			key := Pick{Category: category, Name: name}
			if seen[key] {
				return nil, ErrDuplicateCandidate
			}
			seen[key] = true
			rows = append(rows, &Candidate{
				MeetingID: meetingID,
				Category:  category,
				Name:      name,
				Segment:   c.Segment,
				SortOrder: len(rows),
			})
		}
	}

	saved, err := s.store.ReplaceCandidates(ctx, meetingID, rows)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "vote form saved", "meeting_id", meetingID, "candidates", len(saved))
	return Group(saved), nil
}

// Status returns the meeting's ballot status; a ballot never touched is closed
func (s *Service) Status(ctx context.Context, caller identity.Caller, meetingID string) (*Status, error) {
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}
	st, err := s.store.GetStatus(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return &Status{MeetingID: meetingID}, nil
	}
	return st, nil
}

// SetStatus opens or closes the meeting's ballot. Opening needs a vote form.
func (s *Service) SetStatus(ctx context.Context, caller identity.Caller, meetingID string, open bool) (*Status, error) {
	if err := access.CanManageVotes(caller); err != nil {
		return nil, err
	}
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}
	if open {
		candidates, err := s.store.ListCandidates(ctx, meetingID)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, ErrNoVoteForm
		}
	}

	st := &Status{MeetingID: meetingID, Open: open}
	if memberID, ok := caller.MemberID(); ok {
		st.UpdatedBy = &memberID
	}
	saved, err := s.store.SetStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "vote status changed", "meeting_id", meetingID, "open", open)
	return saved, nil
}

// Cast records a ballot of at most one pick per category. Anyone may vote while the ballot
// is open and the meeting's day has not passed.
func (s *Service) Cast(ctx context.Context, caller identity.Caller, meetingID string, req *BallotRequest) ([]*Candidate, error) {
	m, err := s.meetings.GetVisible(ctx, meetingID, caller)
	if err != nil {
		return nil, err
	}
	if len(req.Votes) == 0 {
		return nil, ErrEmptyBallot
	}

	picks := make([]Pick, 0, len(req.Votes))
	categories := make(map[string]bool)
	for _, p := range req.Votes {
		pick := Pick{Category: strings.TrimSpace(p.Category), Name: strings.TrimSpace(p.Name)}
		if pick.Category == "" {
			return nil, ErrEmptyCategory
		}
		if pick.Name == "" {
			return nil, ErrEmptyCandidate
		}
		if categories[pick.Category] {
			return nil, ErrDuplicatePick
		}
		categories[pick.Category] = true
		picks = append(picks, pick)
	}

	if hasEnded(m, s.now()) {
		return nil, ErrMeetingEnded
	}
	st, err := s.store.GetStatus(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if st == nil || !st.Open {
		return nil, ErrVotingClosed
	}

	counted, err := s.store.Cast(ctx, meetingID, picks)
	if err != nil {
		return nil, err
	}
	if len(counted) == 0 {
		// the ballot may have closed between the status read and the cast
		if st, err := s.store.GetStatus(ctx, meetingID); err == nil && (st == nil || !st.Open) {
			return nil, ErrVotingClosed
		}
		return nil, ErrUnknownCandidate
	}
	sort.Slice(counted, func(i, j int) bool { return counted[i].SortOrder < counted[j].SortOrder })
	slog.InfoContext(ctx, "votes cast", "meeting_id", meetingID, "counted", len(counted), "caller", identity.Kind(caller.Identity))
	return mask(caller, counted), nil
}

func (s *Service) withWinners(ctx context.Context, awards []*Award) ([]*Award, error) {
	ids := make([]string, len(awards))
	for i, a := range awards {
		ids[i] = a.AttendeeID
	}
	byID, err := s.attendees.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range awards {
		if at, ok := byID[a.AttendeeID]; ok {
			a.Winner = at.Name
		}
	}
	return awards, nil
}

func mask(caller identity.Caller, candidates []*Candidate) []*Candidate {
	if access.CanSeeVoteCounts(caller) {
		return candidates
	}
	for _, c := range candidates {
		c.Count = 0
	}
	return candidates
}

// hasEnded reports whether the meeting's calendar day is over at now
func hasEnded(m *meeting.Meeting, now time.Time) bool {
	y, mo, d := m.Date.Date()
	dayAfter := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return !now.UTC().Before(dayAfter)
}
