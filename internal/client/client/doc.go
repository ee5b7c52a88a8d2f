// Package client is the CLI's view of the identity HTTP API.
//
// Client is the transport-agnostic contract; HTTPClient implements it over
// net/http and keeps the session token in memory once Login succeeds.
// Non-2xx responses surface as *APIError, which matches ErrUnauthorized
// (401) and ErrUnavailable (503) through errors.Is. Transport failures are
// wrapped in ErrUnavailable.
package client
