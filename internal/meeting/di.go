package meeting

import (
	"github.com/samber/do/v2"

	"github.com/fkhayef/clubhub/internal/attendee"
)

// RegisterDI provides the meeting service and handler
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		return NewService(
			do.MustInvoke[Store](i),
			do.MustInvoke[*attendee.Resolver](i),
			do.MustInvoke[*attendee.Service](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		return NewHandler(do.MustInvoke[*Service](i)), nil
	})
}
