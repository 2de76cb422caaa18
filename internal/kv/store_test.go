package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// runContract checks the behavior every backend must share.
func runContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key returns default", func(t *testing.T) {
		assert.Equal(t, "[]", s.Get(ctx, "absent", "[]"))
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "recent_items", `[{"path":"a"}]`))
		assert.Equal(t, `[{"path":"a"}]`, s.Get(ctx, "recent_items", "[]"))
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "recent_items", "first"))
		require.NoError(t, s.Put(ctx, "recent_items", "second"))
		assert.Equal(t, "second", s.Get(ctx, "recent_items", ""))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "k1", "v1"))
		require.NoError(t, s.Put(ctx, "k2", "v2"))
		assert.Equal(t, "v1", s.Get(ctx, "k1", ""))
		assert.Equal(t, "v2", s.Get(ctx, "k2", ""))
	})
}

func TestMemStore(t *testing.T) {
	runContract(t, NewMemStore())
}

func TestNilMemStoreReturnsDefault(t *testing.T) {
	var m *MemStore
	assert.Equal(t, "def", m.Get(context.Background(), "k", "def"))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := NewFileStore(path)
	runContract(t, s)

	// Values survive a new instance.
	again := NewFileStore(path)
	assert.Equal(t, "second", again.Get(context.Background(), "recent_items", ""))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist), "temp file should be renamed away")
}

func TestFileStoreCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewFileStore(path)
	assert.Equal(t, "[]", s.Get(ctx, "recent_items", "[]"))

	require.NoError(t, s.Put(ctx, "recent_items", "[]"))
	assert.Equal(t, "[]", s.Get(ctx, "recent_items", "x"))
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mdviewer.db")
	s, err := OpenSQLite(ctx, "sqlite://"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	runContract(t, s)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	runContract(t, &KeyringStore{Service: "mdviewer-test"})

	s := &KeyringStore{}
	require.NoError(t, s.Put(context.Background(), "k", "v"))
	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"), "deleting a missing key is not an error")
	assert.Equal(t, "gone", s.Get(context.Background(), "k", "gone"))
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("MDVIEWER_TEST_REDIS")
	if url == "" {
		t.Skip("MDVIEWER_TEST_REDIS not set")
	}
	s, closer, err := Open(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })
	runContract(t, s)
}

func TestRedisStoreNilClientReturnsDefault(t *testing.T) {
	var s *RedisStore
	assert.Equal(t, "[]", s.Get(context.Background(), "recent_items", "[]"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name string
		url  string
		want any
	}{
		{"mem", "mem://", &MemStore{}},
		{"file scheme", "file://" + filepath.Join(dir, "a.json"), &FileStore{}},
		{"bare path", filepath.Join(dir, "b.json"), &FileStore{}},
		{"sqlite", "sqlite://" + filepath.Join(dir, "c.db"), &SQLiteStore{}},
		{"keyring", "keyring://mdviewer", &KeyringStore{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, closer, err := Open(ctx, tc.url)
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })
			assert.IsType(t, tc.want, s)
		})
	}

	t.Run("unknown scheme", func(t *testing.T) {
		_, _, err := Open(ctx, "etcd://localhost")
		assert.ErrorIs(t, err, ErrUnsupportedBackend)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := Open(ctx, "  ")
		assert.ErrorIs(t, err, ErrUnsupportedBackend)
	})

	t.Run("keyring service from host", func(t *testing.T) {
		s, _, err := Open(ctx, "keyring://custom/")
		require.NoError(t, err)
		assert.Equal(t, "custom", s.(*KeyringStore).Service)
	})
}
