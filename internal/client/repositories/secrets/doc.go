// Package secrets provides the secure key/value backend for access tokens.
//
// # Overview
//
// Backend is the contract the credential store writes through. SQLiteVault
// persists values in the local database sealed with AES-256-GCM under a
// master key that lives only in memory; MemoryBackend keeps plaintext in a
// map and is meant for tests and ephemeral sessions.
//
// # Locking
//
// A SQLiteVault starts locked. While locked, Set fails with
// common.ErrVaultLocked and Get reports every key as absent, so callers fall
// back to their insecure store. Remove never needs the key.
//
// Typical Usage
//
//	v := secrets.NewSQLiteVault(db, "giteekit.tokens")
//	v.Unlock(masterKey)
//	_ = v.Set(ctx, "gitee_access_token_42", token)
//	tok, ok, _ := v.Get(ctx, "gitee_access_token_42")
package secrets
