package modkit

import "net/http"

// Option adjusts how a module is built
type Option func(*Built)

// WithName overrides the module name
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix overrides the route prefix
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares appends middleware run only for this module's routes
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithInject hands collaborators to a module, the module owns the concrete type
func WithInject[T any](v T) Option {
	return func(b *Built) { b.Inject = v }
}
