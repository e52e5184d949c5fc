// Package client contains the authenticated HTTP gateway to the company
// admin backend.
//
// # Overview
//
// Gateway is the single HTTP entry point used by every API wrapper. It:
//  1. attaches the persisted access credential as a bearer Authorization
//     header (plus a fresh X-Request-ID) to each outbound request;
//  2. on 401 from any endpoint other than /auth/login and /auth/refresh,
//     refreshes the access credential once and replays the request once;
//  3. on an irrecoverable refresh failure clears both credentials and the
//     default Authorization header, runs the OnSessionExpired hooks, navigates
//     to the login screen and emits a "session expired" notification;
//  4. reports every other failure through the injected Notifier and still
//     returns it to the caller.
//
// Concurrent 401s share one in-flight refresh (singleflight); a request that
// failed with a token that has since been replaced is replayed without
// another refresh.
//
// # Error Handling
//
// Failures are returned as *APIError (server status and message) or as a
// wrapped transport error. Both match the sentinel errors of this package
// with errors.Is: ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict,
// ErrBadRequest, ErrUnavailable, ErrSessionExpired.
//
// The package also bootstraps the local session database (InitDatabase) and
// exposes TokenExpiry for inspecting access credentials.
package client
