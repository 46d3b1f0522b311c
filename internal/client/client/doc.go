// Package client talks to the fridge backend over its REST API.
//
// # Overview
//
//  1. Client is the transport-agnostic contract used by the services:
//     products, favorites, storage places, auth, profile and recipes.
//  2. HTTPClient implements it over net/http. The bearer token comes from an
//     injected TokenSource; without a usable token a call fails with
//     ErrUnauthenticated before anything is sent.
//  3. Wire payloads are decoded into DTOs and normalized into models types in
//     one place (dto.go); rows that fail validation are dropped and logged.
//
// # Error Handling
//
// Non-2xx responses become *HTTPError. Helpers IsNotFound, IsClientError and
// IsTransient classify them; 401/403 also match ErrUnauthorized and transport
// failures match ErrUnavailable via errors.Is. The client never retries,
// except for the favorite endpoint method negotiation in fallback.go.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call honors ctx.
package client
