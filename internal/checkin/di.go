package checkin

import (
	"github.com/samber/do/v2"

	"github.com/fkhayef/clubhub/internal/meeting"
)

// RegisterDI provides the checkin service and handler
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		return NewService(do.MustInvoke[Store](i), do.MustInvoke[*meeting.Service](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		return NewHandler(do.MustInvoke[*Service](i)), nil
	})
}
