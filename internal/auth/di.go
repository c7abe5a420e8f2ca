package auth

import (
	"github.com/samber/do/v2"

	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/config"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/internal/member"
)

// RegisterDI provides the token verifier and the identity classifier
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*identity.Classifier, error) {
		return identity.NewClassifier(do.MustInvoke[*attendee.Service](i), do.MustInvoke[*member.Service](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (*Verifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewVerifier(cfg.WebJWTSecret, cfg.ChatJWTSecret, cfg.WebJWTAudience, do.MustInvoke[attendee.Store](i)), nil
	})
}
