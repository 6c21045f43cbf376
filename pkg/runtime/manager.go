package runtime

import (
	"context"
	"time"

	"github.com/ReneKroon/ttlcache"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager активные сессии. Сессия без обращений дольше ttl забывается,
// ее прогресс остается в Store.
type Manager struct {
	sessions *ttlcache.Cache
	store    Store
	ttl      time.Duration
}

func NewManager(ttl time.Duration, store Store) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}

	return &Manager{
		sessions: ttlcache.NewCache(),
		store:    store,
		ttl:      ttl,
	}
}

// Start новая сессия пакета. Если задан resumeID и по нему есть сохраненный прогресс,
// сессия продолжает его под тем же идентификатором.
func (m *Manager) Start(ctx context.Context, packageID, resumeID string, opts ...Option) (*Session, error) {
	opts = append(opts, WithStore(m.store))

	if resumeID == "" {
		s := NewSession(ksuid.New().String(), packageID, opts...)
		m.sessions.SetWithTTL(s.ID(), s, m.ttl)
		return s, nil
	}

	if s, err := m.Get(resumeID); err == nil && s.PackageID() == packageID && !s.Finished() {
		return s, nil
	}

	snapshot, err := m.store.Load(ctx, packageID, resumeID)
	if err != nil {
		return nil, errors.Wrapf(err, "resume session %s", resumeID)
	}

	s := NewSession(resumeID, packageID, opts...)
	if err = s.Restore(snapshot); err != nil {
		return nil, err
	}
	m.sessions.SetWithTTL(s.ID(), s, m.ttl)

	return s, nil
}

// Get активная сессия, обращение продлевает ее жизнь
func (m *Manager) Get(id string) (*Session, error) {
	value, ok := m.sessions.Get(id)
	if !ok {
		return nil, errors.Wrap(ErrSessionNotFound, id)
	}
	s, ok := value.(*Session)
	if !ok {
		return nil, errors.Wrap(ErrSessionNotFound, id)
	}

	return s, nil
}

func (m *Manager) Count() int {
	return m.sessions.Count()
}

func (m *Manager) Close() {
	m.sessions.Close()
}
