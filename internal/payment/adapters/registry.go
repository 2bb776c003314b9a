package adapters

import (
	"strings"

	"github.com/Pexry/pexry2-sub001/internal/payment/domain"
)

// Registry maps provider names to their webhook adapters.
type Registry struct {
	adapters map[string]domain.Adapter
}

func NewRegistry(adapters ...domain.Adapter) *Registry {
	r := &Registry{adapters: make(map[string]domain.Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[strings.ToLower(a.Provider())] = a
	}
	return r
}

func (r *Registry) Get(provider string) (domain.Adapter, bool) {
	a, ok := r.adapters[strings.ToLower(provider)]
	return a, ok
}

func (r *Registry) ProviderExists(provider string) bool {
	_, ok := r.Get(provider)
	return ok
}
