package s3_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/s3"
)

func TestLocalKVStore(t *testing.T) {
	t.Parallel()

	store := s3.NewLocalKVStore()

	ok, err := store.Check(ctx, "endpoint")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(ctx, "endpoint")
	assert.ErrorIs(t, err, s3.ErrFieldMissing)

	require.NoError(t, store.Put(ctx, "endpoint", "minio:9000"))
	require.NoError(t, store.Put(ctx, "endpoint", "minio:9001"))

	ok, err = store.Check(ctx, "endpoint")
	require.NoError(t, err)
	assert.True(t, ok)

	val, err := store.Get(ctx, "endpoint")
	require.NoError(t, err)
	assert.Equal(t, "minio:9001", val)
}

func TestLocalKVStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := s3.NewLocalKVStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			_ = store.Put(ctx, key, fmt.Sprint(i))
			_, _ = store.Check(ctx, key)
			_, _ = store.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		ok, err := store.Check(ctx, fmt.Sprintf("k%d", i))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
