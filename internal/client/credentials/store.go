// Package credentials stores one access token per account. Tokens go to a
// secure backend when it accepts them and to a plain key/value store
// otherwise, so a saved token can always be read back.
package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/giteekit/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/giteekit/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/giteekit/internal/logging"
)

// Key returns the storage key for an account's token.
func Key(ownerID int64) string {
	return fmt.Sprintf("gitee_access_token_%d", ownerID)
}

type Store struct {
	secure   secrets.Backend
	fallback metadata.Repository
	log      logging.Logger
}

// NewStore wires a store. A nil logger discards output.
func NewStore(secure secrets.Backend, fallback metadata.Repository, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{secure: secure, fallback: fallback, log: log.With("component", "credentials")}
}

// Save stores token for ownerID. It returns true when the secure backend took
// the write and false when the token landed in the fallback store.
func (s *Store) Save(ctx context.Context, ownerID int64, token string) bool {
	key := Key(ownerID)

	err := s.secure.Set(ctx, key, token)
	if err == nil {
		// a stale plaintext copy would shadow nothing but must not outlive the secure one
		if err := s.fallback.Delete(ctx, key); err != nil {
			s.log.Warn(ctx, "failed to drop fallback credential", "owner_id", ownerID, "err", err)
		}
		return true
	}

	s.log.Warn(ctx, "secure credential storage unavailable, using fallback",
		"owner_id", ownerID, "err", err)

	if err := s.fallback.Set(ctx, key, []byte(token)); err != nil {
		s.log.Error(ctx, "failed to store credential", "owner_id", ownerID, "err", err)
	}
	return false
}

// Get returns the token for ownerID. A missing or empty token reports false.
func (s *Store) Get(ctx context.Context, ownerID int64) (string, bool) {
	key := Key(ownerID)

	tok, ok, err := s.secure.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "secure credential read failed", "owner_id", ownerID, "err", err)
	}
	if ok && tok != "" {
		return tok, true
	}

	b, err := s.fallback.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "fallback credential read failed", "owner_id", ownerID, "err", err)
		return "", false
	}
	if len(b) == 0 {
		return "", false
	}
	return string(b), true
}

// Delete removes the token from both stores. Deleting a missing token is a
// no-op.
func (s *Store) Delete(ctx context.Context, ownerID int64) {
	key := Key(ownerID)

	if err := s.secure.Remove(ctx, key); err != nil {
		s.log.Warn(ctx, "secure credential delete failed", "owner_id", ownerID, "err", err)
	}
	if err := s.fallback.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "fallback credential delete failed", "owner_id", ownerID, "err", err)
	}
}
