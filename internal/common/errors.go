// Package common defines shared constants and sentinel errors used across
// the client layers of giteekit. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Vault errors.
	ErrVaultLocked       = errors.New("vault locked")
	ErrVaultNotInitiated = errors.New("vault not initialized")

	// Session errors.
	ErrNoCurrentProfile = errors.New("no current profile")
	ErrInvalidToken     = errors.New("invalid token")
)
