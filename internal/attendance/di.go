package attendance

import (
	"github.com/samber/do/v2"

	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/checkin"
	"github.com/fkhayef/clubhub/internal/meeting"
	"github.com/fkhayef/clubhub/internal/member"
	"github.com/fkhayef/clubhub/internal/metrics"
)

// RegisterDI provides the attendance service and handler
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		return NewService(
			do.MustInvoke[*meeting.Service](i),
			do.MustInvoke[*checkin.Service](i),
			do.MustInvoke[*attendee.Service](i),
			do.MustInvoke[*member.Service](i),
			do.MustInvoke[*metrics.Metrics](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		return NewHandler(do.MustInvoke[*Service](i)), nil
	})
}
