package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) Store

func storeFactories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"file": func(t *testing.T) Store {
			store, err := NewFileStore(filepath.Join(t.TempDir(), "data.json"))
			require.NoError(t, err)
			return store
		},
		"sqlite": func(t *testing.T) Store {
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data.db"))
			require.NoError(t, err)
			return store
		},
	}
}

type sampleDocument struct {
	Name   string   `json:"name"`
	Points int      `json:"points"`
	Badges []string `json:"badges"`
}

func TestStoreContract(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			t.Cleanup(func() {
				_ = store.Close()
			})

			var missing sampleDocument
			found, err := store.Load(ctx, "missing", &missing)
			require.NoError(t, err)
			assert.False(t, found)

			want := sampleDocument{Name: "Ana", Points: 20, Badges: []string{"primeiro-passo"}}
			require.NoError(t, store.Save(ctx, KeyProfiles, want))

			var got sampleDocument
			found, err = store.Load(ctx, KeyProfiles, &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, want, got)

			want.Points = 35
			require.NoError(t, store.Save(ctx, KeyProfiles, want))
			found, err = store.Load(ctx, KeyProfiles, &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, 35, got.Points)
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, KeyLastActiveDate, "2026-10-18"))
	require.NoError(t, store.Save(ctx, "other", []int{1, 2}))
	require.NoError(t, store.Close())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	var date string
	found, err := reopened.Load(ctx, KeyLastActiveDate, &date)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2026-10-18", date)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStoreRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	var date string
	_, err = store.Load(context.Background(), KeyLastActiveDate, &date)
	assert.Error(t, err)
}

func TestClosedStoreReturnsErrStoreClosed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	err := store.Save(context.Background(), "k", 1)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestNewStoreUnknownType(t *testing.T) {
	_, err := NewStore("KidsFocusTest", Config{Type: "tape"})
	assert.Error(t, err)
}

func TestNewStoreExplicitPaths(t *testing.T) {
	dir := t.TempDir()

	fileStore, err := NewStore("KidsFocusTest", Config{Type: StoreTypeFile, Path: filepath.Join(dir, "d.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, fileStore)

	sqliteStore, err := NewStore("KidsFocusTest", Config{Type: StoreTypeSQLite, Path: filepath.Join(dir, "d.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, sqliteStore)
	require.NoError(t, sqliteStore.Close())
}

func TestRedisStoreContract(t *testing.T) {
	addr := os.Getenv("KIDSFOCUS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("KIDSFOCUS_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	store := NewRedisStoreFromClient(client, "kidsfocus-test:"+t.Name()+":")
	t.Cleanup(func() {
		_ = client.Del(ctx, "kidsfocus-test:"+t.Name()+":"+KeyProfiles).Err()
		_ = store.Close()
	})

	want := sampleDocument{Name: "Rui", Points: 5}
	require.NoError(t, store.Save(ctx, KeyProfiles, want))

	var got sampleDocument
	found, err := store.Load(ctx, KeyProfiles, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}
