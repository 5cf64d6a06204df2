// Package client is the Gitee Open API v5 client used by the giteekit
// services and CLI.
//
// # Overview
//
// The package provides:
//  1. Client, an HTTP/JSON client that resolves an access token for every
//     request (client-wide override first, then the configured
//     TokenSource), sends it as "Authorization: token <t>", and maps non-2xx
//     responses to *APIError.
//  2. Typed endpoint helpers for users, repositories, organizations,
//     notifications, messages and events. List endpoints return Page[T] and
//     accept both response shapes Gitee uses: a bare JSON array, or an object
//     {"list": [...], "total_count": n}.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Errors match the sentinels with errors.Is: ErrUnauthorized (401/403),
// ErrNotFound (404), ErrUnavailable (429, 5xx and transport failures).
// Use errors.As for the *APIError and *DecodeError details.
//
// Concurrency & Contexts
//
// Client is safe for concurrent use. Every call takes a context.Context and
// honors its cancellation. Requests are never retried internally.
package client
