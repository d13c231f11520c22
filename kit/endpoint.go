// Package kit provides the endpoint and transport plumbing shared by
// services: endpoints, middleware chaining, request-scoped context keys,
// and MCP registration helpers.
package kit

import "context"

// Endpoint represents a single RPC method, independent of transport.
type Endpoint func(ctx context.Context, request any) (any, error)

// Middleware is a chainable behavior modifier for endpoints.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares. The first middleware is the outermost:
// its before-code runs first and its after-code runs last.
func Chain(outer Middleware, others ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(others) - 1; i >= 0; i-- {
			next = others[i](next)
		}
		return outer(next)
	}
}
