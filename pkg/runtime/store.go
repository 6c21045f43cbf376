package runtime

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var ErrSnapshotNotFound = errors.New("session snapshot not found")

// Store хранилище снимков сессий (сохраненный прогресс учащегося)
type Store interface {
	Load(ctx context.Context, packageID, sessionID string) ([]byte, error)
	Save(ctx context.Context, packageID, sessionID string, snapshot []byte) error
}

type MemoryStore struct {
	mx    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string][]byte{}}
}

func (m *MemoryStore) Load(_ context.Context, packageID, sessionID string) ([]byte, error) {
	m.mx.RLock()
	defer m.mx.RUnlock()

	data, ok := m.items[packageID+"/"+sessionID]
	if !ok {
		return nil, errors.Wrapf(ErrSnapshotNotFound, "%s/%s", packageID, sessionID)
	}

	return append([]byte(nil), data...), nil
}

func (m *MemoryStore) Save(_ context.Context, packageID, sessionID string, snapshot []byte) error {
	m.mx.Lock()
	defer m.mx.Unlock()

	m.items[packageID+"/"+sessionID] = append([]byte(nil), snapshot...)

	return nil
}
