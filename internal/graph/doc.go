// Package graph implements the Microsoft Graph calendar client: the
// paginated calendar-view fetcher, the create/update/cancel mutation
// requests, and the normalizer that maps raw Graph events into the
// internal record shape.
//
// The client never reads ambient credential state. Every request asks
// the injected token provider for the current bearer credential, so an
// expired or missing sign-in surfaces as an auth error before a single
// byte goes on the wire.
package graph
