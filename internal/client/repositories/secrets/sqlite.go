package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/giteekit/internal/common"
	"github.com/dmitrijs2005/giteekit/internal/cryptox"
	"github.com/dmitrijs2005/giteekit/internal/dbx"
)

// SQLiteVault implements Backend over the secrets table. Rows are scoped by
// namespace so several services can share one database.
type SQLiteVault struct {
	db        dbx.DBTX
	namespace string

	mu  sync.RWMutex
	key []byte
}

// NewSQLiteVault returns a locked vault bound to db.
func NewSQLiteVault(db dbx.DBTX, namespace string) *SQLiteVault {
	return &SQLiteVault{db: db, namespace: namespace}
}

// Unlock installs the master key. The vault keeps its own copy.
func (v *SQLiteVault) Unlock(key []byte) {
	k := make([]byte, len(key))
	copy(k, key)

	v.mu.Lock()
	defer v.mu.Unlock()
	common.WipeByteArray(v.key)
	v.key = k
}

// Lock wipes the master key from memory.
func (v *SQLiteVault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	common.WipeByteArray(v.key)
	v.key = nil
}

func (v *SQLiteVault) Locked() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.key == nil
}

func (v *SQLiteVault) Set(ctx context.Context, key, value string) error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.key == nil {
		return common.ErrVaultLocked
	}

	ct, nonce, err := cryptox.Seal([]byte(value), v.key)
	if err != nil {
		return fmt.Errorf("failed to seal secret[%s]: %w", key, err)
	}

	_, err = v.db.ExecContext(ctx, `
		INSERT INTO secrets (namespace, key, ciphertext, nonce, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace, key) DO UPDATE SET
			ciphertext = excluded.ciphertext,
			nonce = excluded.nonce,
			updated_at = excluded.updated_at
	`, v.namespace, key, ct, nonce)
	if err != nil {
		return fmt.Errorf("failed to store secret[%s]: %w", key, err)
	}
	return nil
}

func (v *SQLiteVault) Get(ctx context.Context, key string) (string, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.key == nil {
		return "", false, nil
	}

	var ct, nonce []byte
	err := v.db.QueryRowContext(ctx,
		`SELECT ciphertext, nonce FROM secrets WHERE namespace = ? AND key = ?`,
		v.namespace, key).Scan(&ct, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load secret[%s]: %w", key, err)
	}

	pt, err := cryptox.Open(ct, nonce, v.key)
	if err != nil {
		return "", false, fmt.Errorf("failed to open secret[%s]: %w", key, err)
	}
	return string(pt), true, nil
}

func (v *SQLiteVault) Remove(ctx context.Context, key string) error {
	_, err := v.db.ExecContext(ctx,
		`DELETE FROM secrets WHERE namespace = ? AND key = ?`, v.namespace, key)
	if err != nil {
		return fmt.Errorf("failed to remove secret[%s]: %w", key, err)
	}
	return nil
}
