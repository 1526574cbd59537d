// Package httpkit is what service http packages mount and respond with
// they import it instead of the platform http package
package httpkit

import (
	"net/http"

	phttp "purchaseinbox/internal/platform/net/http"
	"purchaseinbox/internal/platform/net/http/bind"
)

type (
	// Envelope is the response body
	Envelope = phttp.Envelope

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the mount surface
	Router = phttp.Router
)

// JSON binds and validates the body into T, then wraps fn's result in an envelope
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Call(func(r *http.Request) (any, error) {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}

// Call wraps a body-less handler's result in an envelope
// a returned phttp.Response is written as is
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}
