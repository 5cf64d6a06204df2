// Package common contains shared constants and sentinel errors used across
// giteekit components.
package common

// AuthorizationHeaderName is the HTTP header carrying the access token on
// outbound API requests.
const AuthorizationHeaderName = "Authorization"

// TokenScheme prefixes the access token inside the Authorization header,
// e.g. "token 5f3c...".
const TokenScheme = "token"

// RequestIDHeaderName tags each outbound request so log lines on both sides
// can be correlated.
const RequestIDHeaderName = "X-Request-Id"
