package post

import (
	"github.com/samber/do/v2"

	"github.com/fkhayef/clubhub/internal/member"
)

// RegisterDI provides the post service and handler
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		return NewService(do.MustInvoke[Store](i), do.MustInvoke[*member.Service](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		return NewHandler(do.MustInvoke[*Service](i)), nil
	})
}
