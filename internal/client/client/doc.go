// Package client contains the transports the admin CLI uses to reach the
// saasadmin server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): ListUsers,
//     DeleteUser and CheckAdmin.
//  2. HTTPClient, speaking the JSON API with a bearer token.
//  3. GRPCClient, speaking AdminService with the token in the access_token
//     metadata, injected by a unary interceptor.
//
// # Error Handling
//
// Server refusals come back as *APIError carrying the status and the
// server-provided message; they unwrap to ErrUnauthorized, ErrForbidden,
// ErrNotFound, ErrBadRequest or ErrUnavailable. Network failures and
// timeouts match ErrUnavailable, undecodable bodies ErrMalformedResponse.
//
// Both implementations are safe for concurrent use.
package client
