// Package auth provides bearer-token authentication for the connection
// health endpoints.
//
// JWTAuthenticator validates signed tokens against a KeyProvider and yields
// an Identity whose Principal is the caller's user ID. The RequireIdentity
// middleware guards HTTP handlers, rejecting unauthenticated requests with
// 401 and attaching the identity to the request context for handlers to
// read back.
package auth
