package timing

import (
	"github.com/samber/do/v2"

	"github.com/fkhayef/clubhub/internal/checkin"
	"github.com/fkhayef/clubhub/internal/config"
	"github.com/fkhayef/clubhub/internal/meeting"
)

// RegisterDI provides the timer gate, timing service and handler
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Gate, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewGate(do.MustInvoke[*checkin.Service](i), cfg.TimerSegmentType), nil
	})
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		return NewService(
			do.MustInvoke[Store](i),
			do.MustInvoke[*meeting.Service](i),
			do.MustInvoke[*Gate](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		return NewHandler(do.MustInvoke[*Service](i)), nil
	})
}
