package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, kv.Set(ctx, "k", []byte(`{"a":1}`)))
	v, ok, err := kv.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(v))

	assert.NoError(t, kv.Set(ctx, "k", []byte(`{"a":2}`)))
	v, _, _ = kv.Get(ctx, "k")
	assert.JSONEq(t, `{"a":2}`, string(v))

	assert.NoError(t, kv.Remove(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is not an error.
	assert.NoError(t, kv.Remove(ctx, "k"))
}

func TestMemoryBackend(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	kv, err := NewFile(path)
	assert.NoError(t, err)
	exerciseKV(t, kv)
}

func TestFileBackendPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	kv, err := NewFile(path)
	assert.NoError(t, err)
	assert.NoError(t, kv.Set(ctx, "k", []byte(`"v"`)))
	assert.NoError(t, kv.Close())

	reopened, err := NewFile(path)
	assert.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"v"`, string(v))
}

func TestFileBackendRejectsInvalidJSON(t *testing.T) {
	kv, err := NewFile(filepath.Join(t.TempDir(), "store.json"))
	assert.NoError(t, err)
	assert.Error(t, kv.Set(context.Background(), "k", []byte("not json")))
}

func TestSQLiteBackend(t *testing.T) {
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "store.db"))
	assert.NoError(t, err)
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestRedisBackend(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	kv, err := OpenRedis(context.Background(), mr.Addr(), "")
	assert.NoError(t, err)
	defer kv.Close()
	exerciseKV(t, kv)
}
