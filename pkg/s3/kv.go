package s3

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var ErrFieldMissing = errors.New("missing required field")

// KVStore источник значений полей конфигурации хранилища
type KVStore interface {
	Check(ctx context.Context, key string) (ok bool, err error)
	Put(ctx context.Context, key string, val string) (err error)
	Get(ctx context.Context, key string) (val string, err error)
}

type LocalKVStore struct {
	vals    map[string]string
	rwMutex sync.RWMutex
}

func NewLocalKVStore() *LocalKVStore {
	return &LocalKVStore{
		vals: make(map[string]string),
	}
}

func (b *LocalKVStore) Check(_ context.Context, key string) (ok bool, err error) {
	b.rwMutex.RLock()
	defer b.rwMutex.RUnlock()

	_, ok = b.vals[key]
	return ok, nil
}

func (b *LocalKVStore) Put(_ context.Context, key string, val string) (err error) {
	b.rwMutex.Lock()
	defer b.rwMutex.Unlock()

	if b.vals == nil {
		b.vals = make(map[string]string)
	}
	b.vals[key] = val
	return nil
}

func (b *LocalKVStore) Get(_ context.Context, key string) (val string, err error) {
	b.rwMutex.RLock()
	defer b.rwMutex.RUnlock()

	val, ok := b.vals[key]
	if !ok {
		return "", errors.Wrap(ErrFieldMissing, key)
	}
	return val, nil
}

func InitializeWithMap(ctx context.Context, store KVStore, initial map[ConfigField]string) (err error) {
	for k, v := range initial {
		if err = store.Put(ctx, string(k), v); err != nil {
			return err
		}
	}
	return nil
}
