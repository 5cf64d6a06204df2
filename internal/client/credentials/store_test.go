package credentials

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/giteekit/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/giteekit/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/giteekit/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory metadata.Repository with switchable failures.
type fakeRepo struct {
	mu      sync.Mutex
	m       map[string][]byte
	SetErr  error
	GetErr  error
	DelErr  error
	LastKey string
}

func newFakeRepo() *fakeRepo { return &fakeRepo{m: map[string][]byte{}} }

func (f *fakeRepo) Get(_ context.Context, k string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastKey = k
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.m[k], nil
}

func (f *fakeRepo) Set(_ context.Context, k string, v []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastKey = k
	if f.SetErr != nil {
		return f.SetErr
	}
	f.m[k] = v
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, k string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastKey = k
	if f.DelErr != nil {
		return f.DelErr
	}
	delete(f.m, k)
	return nil
}

func (f *fakeRepo) List(context.Context) (map[string][]byte, error) { return f.m, nil }
func (f *fakeRepo) Clear(context.Context) error                      { f.m = map[string][]byte{}; return nil }
func (f *fakeRepo) Apply(context.Context, metadata.Batch) error      { return nil }

// lockedBackend rejects writes like a locked vault.
type lockedBackend struct{ secrets.MemoryBackend }

func (lockedBackend) Set(context.Context, string, string) error { return common.ErrVaultLocked }

// brokenBackend fails every call.
type brokenBackend struct{}

var errBroken = errors.New("backend down")

func (brokenBackend) Set(context.Context, string, string) error { return errBroken }
func (brokenBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errBroken
}
func (brokenBackend) Remove(context.Context, string) error { return errBroken }

func TestKey(t *testing.T) {
	assert.Equal(t, "gitee_access_token_42", Key(42))
}

func TestSave_SecureBackend(t *testing.T) {
	secure := secrets.NewMemoryBackend()
	fb := newFakeRepo()
	s := NewStore(secure, fb, nil)
	ctx := context.Background()

	require.True(t, s.Save(ctx, 1, "tok"))

	tok, ok := s.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "tok", tok)
	assert.Empty(t, fb.m, "fallback must stay empty")
}

func TestSave_FallbackWhenSecureFails(t *testing.T) {
	fb := newFakeRepo()
	s := NewStore(&lockedBackend{}, fb, nil)
	ctx := context.Background()

	require.False(t, s.Save(ctx, 7, "tok"))
	assert.Equal(t, []byte("tok"), fb.m["gitee_access_token_7"])

	tok, ok := s.Get(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, "tok", tok)
}

func TestSave_SecureSuccessDropsStaleFallback(t *testing.T) {
	secure := secrets.NewMemoryBackend()
	fb := newFakeRepo()
	fb.m["gitee_access_token_1"] = []byte("old")
	s := NewStore(secure, fb, nil)
	ctx := context.Background()

	require.True(t, s.Save(ctx, 1, "new"))
	_, present := fb.m["gitee_access_token_1"]
	assert.False(t, present)
}

func TestGet_Missing(t *testing.T) {
	s := NewStore(secrets.NewMemoryBackend(), newFakeRepo(), nil)

	tok, ok := s.Get(context.Background(), 99)
	assert.False(t, ok)
	assert.Empty(t, tok)
}

func TestGet_EmptySecureValueFallsThrough(t *testing.T) {
	secure := secrets.NewMemoryBackend()
	fb := newFakeRepo()
	ctx := context.Background()
	require.NoError(t, secure.Set(ctx, Key(3), ""))
	fb.m[Key(3)] = []byte("plain")

	tok, ok := NewStore(secure, fb, nil).Get(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, "plain", tok)
}

func TestGet_SecureErrorFallsThrough(t *testing.T) {
	fb := newFakeRepo()
	fb.m[Key(3)] = []byte("plain")

	tok, ok := NewStore(brokenBackend{}, fb, nil).Get(context.Background(), 3)
	require.True(t, ok)
	assert.Equal(t, "plain", tok)
}

func TestGet_BothFailingReportsAbsent(t *testing.T) {
	fb := newFakeRepo()
	fb.GetErr = errors.New("disk gone")

	_, ok := NewStore(brokenBackend{}, fb, nil).Get(context.Background(), 3)
	assert.False(t, ok)
}

func TestDelete_RemovesFromBothAndIsIdempotent(t *testing.T) {
	secure := secrets.NewMemoryBackend()
	fb := newFakeRepo()
	s := NewStore(secure, fb, nil)
	ctx := context.Background()

	require.NoError(t, secure.Set(ctx, Key(5), "a"))
	fb.m[Key(5)] = []byte("b")

	s.Delete(ctx, 5)
	_, ok := s.Get(ctx, 5)
	assert.False(t, ok)

	s.Delete(ctx, 5)
	_, ok = s.Get(ctx, 5)
	assert.False(t, ok)
	assert.Equal(t, 0, secure.Len())
	assert.Empty(t, fb.m)
}

func TestDelete_SecureFailureStillClearsFallback(t *testing.T) {
	fb := newFakeRepo()
	fb.m[Key(5)] = []byte("b")

	NewStore(brokenBackend{}, fb, nil).Delete(context.Background(), 5)
	assert.Empty(t, fb.m)
}
