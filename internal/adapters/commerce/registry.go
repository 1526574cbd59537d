package commerce

import (
	"sort"

	perr "purchaseinbox/internal/platform/errors"
)

// Registry selects an Adapter by source
type Registry struct {
	m map[Source]Adapter
}

// NewRegistry registers the given adapters, later ones replace earlier ones
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{m: make(map[Source]Adapter, len(adapters))}
	for _, a := range adapters {
		if a == nil {
			continue
		}
		r.m[a.Source()] = a
	}
	return r
}

// Default returns a registry with the Shopify, WooCommerce and Generic adapters
func Default() *Registry {
	return NewRegistry(Shopify{}, WooCommerce{}, Generic{})
}

// Get returns the adapter for src
func (r *Registry) Get(src Source) (Adapter, error) {
	if r != nil {
		if a, ok := r.m[src]; ok {
			return a, nil
		}
	}
	return nil, perr.Validationf("no adapter registered for source %q", src)
}

// Adapt is shorthand for Get then Adapt
func (r *Registry) Adapt(src Source, payload []byte, meta Meta) ([]RawOrder, error) {
	a, err := r.Get(src)
	if err != nil {
		return nil, err
	}
	return a.Adapt(payload, meta)
}

// Sources lists registered sources in stable order
func (r *Registry) Sources() []Source {
	out := make([]Source, 0, len(r.m))
	for s := range r.m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
