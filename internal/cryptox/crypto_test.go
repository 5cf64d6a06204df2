package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveMasterKey(password, salt)
	key2 := DeriveMasterKey(password, salt)

	require.Equal(t, key1, key2)
	require.Len(t, key1, KeySize)

	// argon2id, 1 pass, 64 MiB, 4 lanes; changing these breaks existing vaults
	want := argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
	require.Equal(t, hex.EncodeToString(want), hex.EncodeToString(key1))
}

func TestDeriveMasterKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveMasterKey(password, []byte("salt-1"))
	key2 := DeriveMasterKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestMakeVerifier_StableAndKeySpecific(t *testing.T) {
	k1 := bytes.Repeat([]byte{1}, KeySize)
	k2 := bytes.Repeat([]byte{2}, KeySize)

	require.Equal(t, MakeVerifier(k1), MakeVerifier(k1))
	require.NotEqual(t, MakeVerifier(k1), MakeVerifier(k2))
	require.Len(t, MakeVerifier(k1), 32)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveMasterKey([]byte("pw"), []byte("salt"))

	ct, nonce, err := Seal([]byte("gitee-token"), key)
	require.NoError(t, err)
	require.NotEqual(t, []byte("gitee-token"), ct)

	pt, err := Open(ct, nonce, key)
	require.NoError(t, err)
	require.Equal(t, "gitee-token", string(pt))
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	key := bytes.Repeat([]byte{7}, KeySize)

	_, n1, err := Seal([]byte("x"), key)
	require.NoError(t, err)
	_, n2, err := Seal([]byte("x"), key)
	require.NoError(t, err)

	require.NotEqual(t, n1, n2)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	ct, nonce, err := Seal([]byte("x"), bytes.Repeat([]byte{1}, KeySize))
	require.NoError(t, err)

	_, err = Open(ct, nonce, bytes.Repeat([]byte{2}, KeySize))
	require.Error(t, err)
}

func TestSeal_RejectsBadKeyLength(t *testing.T) {
	_, _, err := Seal([]byte("x"), []byte("short"))
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = Open([]byte("x"), []byte("n"), nil)
	require.ErrorIs(t, err, ErrInvalidKey)
}
