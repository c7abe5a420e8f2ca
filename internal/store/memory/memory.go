// Package memory keeps every record in process memory behind one lock. It implements the
// store interface of each feature and backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/checkin"
	"github.com/fkhayef/clubhub/internal/feedback"
	"github.com/fkhayef/clubhub/internal/meeting"
	"github.com/fkhayef/clubhub/internal/member"
	"github.com/fkhayef/clubhub/internal/post"
	"github.com/fkhayef/clubhub/internal/timing"
	"github.com/fkhayef/clubhub/internal/vote"
)

// DB is the shared in-memory database
type DB struct {
	mu sync.RWMutex

	members   map[string]*member.Member
	attendees map[string]*attendee.Attendee
	meetings  map[string]*meeting.Meeting
	segments  map[string]*meeting.Segment
	checkins  map[string]*checkin.Checkin
	feedbacks map[string]*feedback.Feedback
	timings   map[string]*timing.Timing

	awards     map[string]*vote.Award
	candidates map[string]*vote.Candidate
	voteStatus map[string]*vote.Status
	posts      map[string]*post.Post

	now func() time.Time
}

// New creates an empty database
func New() *DB {
	return &DB{
		members:   make(map[string]*member.Member),
		attendees: make(map[string]*attendee.Attendee),
		meetings:  make(map[string]*meeting.Meeting),
		segments:  make(map[string]*meeting.Segment),
		checkins:  make(map[string]*checkin.Checkin),
		feedbacks: make(map[string]*feedback.Feedback),
		timings:   make(map[string]*timing.Timing),

		awards:     make(map[string]*vote.Award),
		candidates: make(map[string]*vote.Candidate),
		voteStatus: make(map[string]*vote.Status),
		posts:      make(map[string]*post.Post),

		now: func() time.Time { return time.Now().UTC() },
	}
}

func newID() string {
	return uuid.NewString()
}

// AddMember inserts a member, assigning an id when it has none
func (db *DB) AddMember(m member.Member) *member.Member {
	db.mu.Lock()
	defer db.mu.Unlock()

	if m.ID == "" {
		m.ID = newID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = db.now()
	}
	db.members[m.ID] = &m
	return cloneMember(&m)
}

// AddAttendee inserts an attendee, assigning an id when it has none
func (db *DB) AddAttendee(a attendee.Attendee) *attendee.Attendee {
	db.mu.Lock()
	defer db.mu.Unlock()

	if a.ID == "" {
		a.ID = newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = db.now()
	}
	db.attendees[a.ID] = &a
	return cloneAttendee(&a)
}

// BindWxid links a chat identity to an attendee, replacing any previous binding of that identity
func (db *DB) BindWxid(attendeeID, wxid string) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.attendees {
		if a.Wxid != nil && *a.Wxid == wxid {
			a.Wxid = nil
		}
	}
	if a, ok := db.attendees[attendeeID]; ok {
		w := wxid
		a.Wxid = &w
	}
}

// Members returns the member store view
func (db *DB) Members() *MemberStore { return &MemberStore{db: db} }

// Attendees returns the attendee store view
func (db *DB) Attendees() *AttendeeStore { return &AttendeeStore{db: db} }

// Meetings returns the meeting store view
func (db *DB) Meetings() *MeetingStore { return &MeetingStore{db: db} }

// Checkins returns the checkin store view
func (db *DB) Checkins() *CheckinStore { return &CheckinStore{db: db} }

// Feedbacks returns the feedback store view
func (db *DB) Feedbacks() *FeedbackStore { return &FeedbackStore{db: db} }

// Timings returns the timing store view
func (db *DB) Timings() *TimingStore { return &TimingStore{db: db} }

// Votes returns the awards and voting store view
func (db *DB) Votes() *VoteStore { return &VoteStore{db: db} }

// Posts returns the blog post store view
func (db *DB) Posts() *PostStore { return &PostStore{db: db} }

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneMember(m *member.Member) *member.Member {
	c := *m
	return &c
}

func cloneAttendee(a *attendee.Attendee) *attendee.Attendee {
	c := *a
	c.MemberID = cloneString(a.MemberID)
	c.Wxid = cloneString(a.Wxid)
	return &c
}

func cloneSegment(s *meeting.Segment) *meeting.Segment {
	c := *s
	c.RoleTakerID = cloneString(s.RoleTakerID)
	c.RelatedSegmentIDs = append([]string{}, s.RelatedSegmentIDs...)
	return &c
}

func cloneCheckin(c *checkin.Checkin) *checkin.Checkin {
	v := *c
	v.SegmentID = cloneString(c.SegmentID)
	v.Name = cloneString(c.Name)
	v.ReferralSource = cloneString(c.ReferralSource)
	return &v
}

func cloneFeedback(f *feedback.Feedback) *feedback.Feedback {
	c := *f
	c.SegmentID = cloneString(f.SegmentID)
	c.ToAttendeeID = cloneString(f.ToAttendeeID)
	return &c
}

func cloneTiming(t *timing.Timing) *timing.Timing {
	c := *t
	c.Name = cloneString(t.Name)
	return &c
}
