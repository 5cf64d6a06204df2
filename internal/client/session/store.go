package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/giteekit/internal/client/models"
	"github.com/dmitrijs2005/giteekit/internal/client/repositories/metadata"
)

const (
	profilesKey  = "session.profiles"
	currentIDKey = "session.current_id"
)

// Snapshot is the persisted form of the session: the ordered profile list
// and the current account id, if any.
type Snapshot struct {
	Profiles  []models.Profile
	CurrentID *int64
}

// Store persists snapshots. Save must write both parts atomically.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}

// KVStore keeps the snapshot in a metadata.Repository under two keys,
// written in one batch.
type KVStore struct {
	repo metadata.Repository
}

func NewKVStore(repo metadata.Repository) *KVStore {
	return &KVStore{repo: repo}
}

// ErrCorruptSnapshot is wrapped by Load when stored data cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt session snapshot")

func (s *KVStore) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	blob, err := s.repo.Get(ctx, profilesKey)
	if err != nil {
		return snap, err
	}
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &snap.Profiles); err != nil {
			return Snapshot{}, fmt.Errorf("%w: profiles: %v", ErrCorruptSnapshot, err)
		}
	}

	raw, err := s.repo.Get(ctx, currentIDKey)
	if err != nil {
		return snap, err
	}
	if len(raw) > 0 {
		id, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return snap, fmt.Errorf("%w: current id: %v", ErrCorruptSnapshot, err)
		}
		snap.CurrentID = &id
	}

	return snap, nil
}

func (s *KVStore) Save(ctx context.Context, snap Snapshot) error {
	profiles := snap.Profiles
	if profiles == nil {
		profiles = []models.Profile{}
	}
	blob, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}

	b := metadata.Batch{Set: map[string][]byte{profilesKey: blob}}
	if snap.CurrentID != nil {
		b.Set[currentIDKey] = []byte(strconv.FormatInt(*snap.CurrentID, 10))
	} else {
		b.Delete = []string{currentIDKey}
	}

	return s.repo.Apply(ctx, b)
}
