// Package session tracks the Gitee accounts known to this client and which
// of them is current.
//
// # Overview
//
// Manager holds the ordered profile list and the current account id in
// memory, persists every change through a Store, and resolves the current
// account's token through a Credentials provider. It implements the API
// client's token source.
//
// # Concurrency
//
// A single mutex guards the in-memory state. Credential lookups and
// persistence run outside it. Every mutation takes a versioned snapshot
// under the lock; a separate writer mutex persists snapshots in order and
// drops any that are older than the last one written.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/dmitrijs2005/giteekit/internal/logging"
)

// Credentials resolves and removes per-account tokens.
type Credentials interface {
	Get(ctx context.Context, ownerID int64) (string, bool)
	Delete(ctx context.Context, ownerID int64)
}

type versioned struct {
	Snapshot
	version uint64
}

type Manager struct {
	creds Credentials
	store Store
	log   logging.Logger

	mu        sync.Mutex
	profiles  []models.Profile
	currentID *int64
	version   uint64

	persistMu sync.Mutex
	persisted uint64
}

// NewManager loads the persisted session and returns a ready manager.
// Undecodable stored data is logged and replaced by an empty session; a
// store that cannot be read at all is an error.
func NewManager(ctx context.Context, creds Credentials, store Store, log logging.Logger) (*Manager, error) {
	if log == nil {
		log = logging.Nop()
	}
	m := &Manager{creds: creds, store: store, log: log.With("component", "session")}

	snap, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrCorruptSnapshot):
		m.log.Warn(ctx, "discarding unreadable session state", "err", err)
	case err != nil:
		return nil, err
	default:
		m.profiles = snap.Profiles
		m.currentID = snap.CurrentID
	}

	return m, nil
}

// AddOrUpdateProfile replaces the profile with the same id in place, or
// appends it. The first profile added to a session without a current
// account becomes current. It returns false if the change could not be
// persisted; the in-memory state is updated either way.
func (m *Manager) AddOrUpdateProfile(ctx context.Context, p models.Profile) bool {
	m.mu.Lock()
	if i := m.indexLocked(p.ID); i >= 0 {
		m.profiles[i] = cloneProfile(p)
	} else {
		m.profiles = append(m.profiles, cloneProfile(p))
	}
	if m.currentID == nil {
		id := p.ID
		m.currentID = &id
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	return m.persist(ctx, snap)
}

// CurrentProfile returns the current account's profile.
func (m *Manager) CurrentProfile() (models.Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentID == nil {
		return models.Profile{}, false
	}
	i := m.indexLocked(*m.currentID)
	if i < 0 {
		return models.Profile{}, false
	}
	return cloneProfile(m.profiles[i]), true
}

// CurrentID returns the current account id, which may be set even when its
// profile has since disappeared.
func (m *Manager) CurrentID() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentID == nil {
		return 0, false
	}
	return *m.currentID, true
}

// Profiles returns a copy of all known profiles in insertion order.
func (m *Manager) Profiles() []models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Profile, len(m.profiles))
	for i, p := range m.profiles {
		out[i] = cloneProfile(p)
	}
	return out
}

func (m *Manager) Profile(id int64) (models.Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return models.Profile{}, false
	}
	return cloneProfile(m.profiles[i]), true
}

// SwitchCurrent makes id the current account. Nothing changes unless the
// profile is known and a non-empty token is stored for it.
func (m *Manager) SwitchCurrent(ctx context.Context, id int64) bool {
	if _, ok := m.Profile(id); !ok {
		return false
	}
	if tok, ok := m.creds.Get(ctx, id); !ok || tok == "" {
		m.log.Debug(ctx, "switch refused, no credential", "id", id)
		return false
	}

	m.mu.Lock()
	// the profile may have been deleted while the credential was read
	if m.indexLocked(id) < 0 {
		m.mu.Unlock()
		return false
	}
	m.currentID = &id
	snap := m.snapshotLocked()
	m.mu.Unlock()

	return m.persist(ctx, snap)
}

// UpdateCurrentProfile replaces the current profile. p.ID must be the
// current id.
func (m *Manager) UpdateCurrentProfile(ctx context.Context, p models.Profile) bool {
	m.mu.Lock()
	if m.currentID == nil || *m.currentID != p.ID {
		m.mu.Unlock()
		return false
	}
	return m.replaceLocked(ctx, p)
}

// UpdateProfile replaces a known profile by id.
func (m *Manager) UpdateProfile(ctx context.Context, p models.Profile) bool {
	m.mu.Lock()
	return m.replaceLocked(ctx, p)
}

// replaceLocked must be called with m.mu held; it releases it.
func (m *Manager) replaceLocked(ctx context.Context, p models.Profile) bool {
	i := m.indexLocked(p.ID)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	m.profiles[i] = cloneProfile(p)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	return m.persist(ctx, snap)
}

// DeleteCurrent forgets the current account and its token. The first
// remaining profile, if any, becomes current.
func (m *Manager) DeleteCurrent(ctx context.Context) bool {
	m.mu.Lock()
	if m.currentID == nil {
		m.mu.Unlock()
		return false
	}
	id := *m.currentID
	if i := m.indexLocked(id); i >= 0 {
		m.profiles = append(m.profiles[:i:i], m.profiles[i+1:]...)
	}
	if len(m.profiles) > 0 {
		next := m.profiles[0].ID
		m.currentID = &next
	} else {
		m.currentID = nil
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.creds.Delete(ctx, id)
	return m.persist(ctx, snap)
}

// DeleteAll forgets every account and every stored token.
func (m *Manager) DeleteAll(ctx context.Context) bool {
	m.mu.Lock()
	ids := make([]int64, 0, len(m.profiles)+1)
	for _, p := range m.profiles {
		ids = append(ids, p.ID)
	}
	if m.currentID != nil && m.indexLocked(*m.currentID) < 0 {
		ids = append(ids, *m.currentID)
	}
	m.profiles = nil
	m.currentID = nil
	snap := m.snapshotLocked()
	m.mu.Unlock()

	for _, id := range ids {
		m.creds.Delete(ctx, id)
	}
	return m.persist(ctx, snap)
}

// IsLoggedIn reports whether a current account exists with a retrievable
// token. It re-checks the credential store on every call.
func (m *Manager) IsLoggedIn(ctx context.Context) bool {
	_, ok := m.CurrentToken(ctx)
	return ok
}

// CurrentToken returns the current account's token.
func (m *Manager) CurrentToken(ctx context.Context) (string, bool) {
	m.mu.Lock()
	if m.currentID == nil || m.indexLocked(*m.currentID) < 0 {
		m.mu.Unlock()
		return "", false
	}
	id := *m.currentID
	m.mu.Unlock()

	return m.token(ctx, id)
}

// TokenFor returns the token of a known account.
func (m *Manager) TokenFor(ctx context.Context, id int64) (string, bool) {
	if _, ok := m.Profile(id); !ok {
		return "", false
	}
	return m.token(ctx, id)
}

func (m *Manager) token(ctx context.Context, id int64) (string, bool) {
	tok, ok := m.creds.Get(ctx, id)
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

func (m *Manager) indexLocked(id int64) int {
	for i := range m.profiles {
		if m.profiles[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) snapshotLocked() versioned {
	m.version++
	s := versioned{version: m.version}
	s.Profiles = make([]models.Profile, len(m.profiles))
	for i, p := range m.profiles {
		s.Profiles[i] = cloneProfile(p)
	}
	if m.currentID != nil {
		id := *m.currentID
		s.CurrentID = &id
	}
	return s
}

// persist writes snap unless a newer snapshot has already been written.
func (m *Manager) persist(ctx context.Context, snap versioned) bool {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	if snap.version <= m.persisted {
		return true
	}
	if err := m.store.Save(ctx, snap.Snapshot); err != nil {
		m.log.Warn(ctx, "failed to persist session", "version", snap.version, "err", err)
		return false
	}
	m.persisted = snap.version
	return true
}

func cloneProfile(p models.Profile) models.Profile {
	if p.Name != nil {
		v := *p.Name
		p.Name = &v
	}
	if p.AvatarURL != nil {
		v := *p.AvatarURL
		p.AvatarURL = &v
	}
	return p
}
