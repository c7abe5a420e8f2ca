// Package postgres wires the Postgres repository of each feature as its store
package postgres

import (
	"database/sql"

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
func RegisterDI(injector do.Injector, db *sql.DB) {
	do.ProvideValue(injector, db)
	do.ProvideValue[member.Store](injector, member.NewRepository(db))
	do.ProvideValue[attendee.Store](injector, attendee.NewRepository(db))
	do.ProvideValue[meeting.Store](injector, meeting.NewRepository(db))
	do.ProvideValue[checkin.Store](injector, checkin.NewRepository(db))
	do.ProvideValue[feedback.Store](injector, feedback.NewRepository(db))
	do.ProvideValue[timing.Store](injector, timing.NewRepository(db))
	do.ProvideValue[vote.Store](injector, vote.NewRepository(db))
	do.ProvideValue[post.Store](injector, post.NewRepository(db))
}
