package services

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/giteekit/internal/client/client"
	"github.com/dmitrijs2005/giteekit/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/giteekit/internal/common"
	"github.com/dmitrijs2005/giteekit/internal/cryptox"
)

const (
	vaultSaltKey     = "vault.salt"
	vaultVerifierKey = "vault.verifier"
	saltSize         = 32
)

// KeyHolder receives the master key after a successful unlock.
// *secrets.SQLiteVault implements it.
type KeyHolder interface {
	Unlock(key []byte)
	Lock()
}

// VaultService turns a passphrase into the token vault's master key.
//
// The first Unlock generates a salt and stores it with a verifier of the
// derived key. Later calls derive the key from the stored salt and compare
// verifiers, returning client.ErrUnauthorized on mismatch. The passphrase
// buffer is wiped in every case.
type VaultService interface {
	Unlock(ctx context.Context, passphrase []byte) ([]byte, error)
	Initialized(ctx context.Context) (bool, error)
	Lock()
	Reset(ctx context.Context) error
}

type vaultService struct {
	repo  metadata.Repository
	vault KeyHolder
}

func NewVaultService(repo metadata.Repository, vault KeyHolder) VaultService {
	return &vaultService{repo: repo, vault: vault}
}

func (v *vaultService) Initialized(ctx context.Context) (bool, error) {
	salt, err := v.repo.Get(ctx, vaultSaltKey)
	if err != nil {
		return false, err
	}
	return len(salt) > 0, nil
}

func (v *vaultService) Unlock(ctx context.Context, passphrase []byte) ([]byte, error) {
	defer common.WipeByteArray(passphrase)

	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", client.ErrUnauthorized)
	}

	salt, err := v.repo.Get(ctx, vaultSaltKey)
	if err != nil {
		return nil, fmt.Errorf("load vault salt: %w", err)
	}

	if len(salt) == 0 {
		return v.initialize(ctx, passphrase)
	}

	savedVerifier, err := v.repo.Get(ctx, vaultVerifierKey)
	if err != nil {
		return nil, fmt.Errorf("load vault verifier: %w", err)
	}
	if len(savedVerifier) == 0 {
		return nil, common.ErrVaultNotInitiated
	}

	key := cryptox.DeriveMasterKey(passphrase, salt)
	if subtle.ConstantTimeCompare(savedVerifier, cryptox.MakeVerifier(key)) == 0 {
		common.WipeByteArray(key)
		return nil, client.ErrUnauthorized
	}

	v.vault.Unlock(key)
	return key, nil
}

// initialize stores salt and verifier together so a crash cannot leave a
// salt without its verifier.
func (v *vaultService) initialize(ctx context.Context, passphrase []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := cryptox.DeriveMasterKey(passphrase, salt)

	err := v.repo.Apply(ctx, metadata.Batch{Set: map[string][]byte{
		vaultSaltKey:     salt,
		vaultVerifierKey: cryptox.MakeVerifier(key),
	}})
	if err != nil {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("save vault parameters: %w", err)
	}

	v.vault.Unlock(key)
	return key, nil
}

func (v *vaultService) Lock() {
	v.vault.Lock()
}

// Reset forgets the vault parameters. Secrets sealed under the old key
// become unreadable.
func (v *vaultService) Reset(ctx context.Context) error {
	v.vault.Lock()
	return v.repo.Apply(ctx, metadata.Batch{Delete: []string{vaultSaltKey, vaultVerifierKey}})
}
