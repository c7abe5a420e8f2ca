package attendee

import (
	"github.com/samber/do/v2"

	"github.com/fkhayef/clubhub/internal/member"
)

// RegisterDI provides the attendee service and resolver. Store and member.Store must already be provided.
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		return NewService(do.MustInvoke[Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (*Resolver, error) {
		return NewResolver(do.MustInvoke[Store](i), do.MustInvoke[member.Store](i)), nil
	})
}
