package metrics

import "github.com/samber/do/v2"

// RegisterDI provides the metrics collectors
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Metrics, error) {
		return New(), nil
	})
}
