package kvstore_test

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketchat/internal/database"
	"pocketchat/internal/kvstore"
)

// fakeRedis implements the three commands the redis store uses on top of a map.
// Any other command panics through the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: map[string]string{}} }

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// runStoreContract checks the behaviour every backend must share.
func runStoreContract(t *testing.T, store kvstore.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Missing key is not found", func(t *testing.T) {
		_, found, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Set then Get round trips", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "chats", []byte(`[{"id":"a"}]`)))

		value, found, err := store.Get(ctx, "chats")
		require.NoError(t, err)
		assert.True(t, found)
		assert.JSONEq(t, `[{"id":"a"}]`, string(value))
	})

	t.Run("Set replaces the previous value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "chats", []byte(`[]`)))

		value, _, err := store.Get(ctx, "chats")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(value))
	})

	t.Run("Delete removes and is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "chats"))
		require.NoError(t, store.Delete(ctx, "chats"))

		_, found, err := store.Get(ctx, "chats")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Empty key is rejected", func(t *testing.T) {
		_, _, err := store.Get(ctx, "")
		assert.ErrorIs(t, err, kvstore.ErrEmptyKey)
		assert.ErrorIs(t, store.Set(ctx, "", nil), kvstore.ErrEmptyKey)
		assert.ErrorIs(t, store.Delete(ctx, ""), kvstore.ErrEmptyKey)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, kvstore.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := kvstore.NewFileStore(filepath.Join(t.TempDir(), "kv"), "")
	require.NoError(t, err)
	runStoreContract(t, store)
}

func TestFileStore_Namespace(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	a, err := kvstore.NewFileStore(dir, "pocketchat")
	require.NoError(t, err)
	b, err := kvstore.NewFileStore(dir, "other")
	require.NoError(t, err)
	runStoreContract(t, a)

	require.NoError(t, a.Set(ctx, "chats", []byte(`[]`)))
	assert.FileExists(t, filepath.Join(dir, "pocketchat", "chats.json"))

	_, found, err := b.Get(ctx, "chats")
	require.NoError(t, err)
	assert.False(t, found, "namespaces must not see each other's keys")
}

func TestRedisStore(t *testing.T) {
	fake := newFakeRedis()
	runStoreContract(t, kvstore.NewRedisStore(fake, "pocketchat"))

	require.NoError(t, kvstore.NewRedisStore(fake, "pocketchat").Set(context.Background(), "k", []byte("v")))
	assert.Equal(t, "v", fake.data["pocketchat:k"], "keys must carry the namespace")
}

func TestSQLiteStore(t *testing.T) {
	db, err := database.InitDB(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	runStoreContract(t, kvstore.NewSQLiteStore(db, ""))
}

func TestSQLiteStore_Queries(t *testing.T) {
	ctx := context.Background()
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := kvstore.NewSQLiteStore(db, "ns")

	t.Run("Get uses the namespaced key", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"value"}).AddRow(`{"a":1}`)
		mockDB.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
			WithArgs("ns:settings").
			WillReturnRows(rows)

		value, found, err := store.Get(ctx, "settings")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"a":1}`, string(value))
	})

	t.Run("Set upserts", func(t *testing.T) {
		mockDB.ExpectExec("INSERT INTO kv").
			WithArgs("ns:settings", `{}`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, store.Set(ctx, "settings", []byte(`{}`)))
	})

	t.Run("Driver errors are wrapped", func(t *testing.T) {
		mockDB.ExpectExec("DELETE FROM kv").
			WithArgs("ns:settings").
			WillReturnError(assert.AnError)

		err := store.Delete(ctx, "settings")
		assert.ErrorIs(t, err, assert.AnError)
	})

	require.NoError(t, mockDB.ExpectationsWereMet())
}
