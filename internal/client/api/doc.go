// Package api is the authenticated request gateway of the portal client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (the Client interface) covering every
//     backend operation: login, identity resolution, server status, shop
//     catalog and purchases, and the admin surface.
//  2. A concrete HTTP/JSON implementation (HTTPClient) that attaches the
//     current bearer credential to outgoing requests, classifies responses,
//     and fires a hook when the backend rejects the credential so the session
//     can be torn down in exactly one place.
//
// # Error Handling
//
// Outcomes are exposed as sentinel errors matched with errors.Is:
// ErrUnauthorized, ErrForbidden, ErrValidation, ErrNotFound, ErrUnavailable.
// Anything else is a wrapped generic error. The gateway never retries;
// callers decide whether a failed call is worth repeating.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation and timeouts.
package api
