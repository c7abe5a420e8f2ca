package memory

import (
	"github.com/samber/do/v2"

	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/checkin"
	"github.com/fkhayef/clubhub/internal/feedback"
	"github.com/fkhayef/clubhub/internal/meeting"
	"github.com/fkhayef/clubhub/internal/member"
	"github.com/fkhayef/clubhub/internal/post"
	"github.com/fkhayef/clubhub/internal/timing"
	"github.com/fkhayef/clubhub/internal/vote"
)

// RegisterDI provides every feature store backed by db
func RegisterDI(injector do.Injector, db *DB) {
	do.ProvideValue(injector, db)
	do.ProvideValue[member.Store](injector, db.Members())
	do.ProvideValue[attendee.Store](injector, db.Attendees())
	do.ProvideValue[meeting.Store](injector, db.Meetings())
	do.ProvideValue[checkin.Store](injector, db.Checkins())
	do.ProvideValue[feedback.Store](injector, db.Feedbacks())
	do.ProvideValue[timing.Store](injector, db.Timings())
	do.ProvideValue[vote.Store](injector, db.Votes())
	do.ProvideValue[post.Store](injector, db.Posts())
}
