package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btkit/btdiff/internal/adapters/redis"
	"github.com/btkit/btdiff/pkg/domain"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewFromClient(client, opts...), mr
}

func sampleResult() *domain.DiffResult {
	entries := []domain.DiffEntry{
		{ChangeKind: domain.ChangeAdded, IdentityKey: "Log[2]", NodeType: "Log",
			Path: []string{"Sequence[0]", "Log[2]"}},
	}
	return &domain.DiffResult{
		Entries:   entries,
		Summary:   domain.Summarize(entries),
		OldSource: "old.xml",
		NewSource: "new.xml",
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", sampleResult()))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), got)
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrResultNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", sampleResult()))
	require.NoError(t, store.Delete(ctx, "abc"))
	_, err := store.Load(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrResultNotFound)
}

func TestStore_KeysArePrefixed(t *testing.T) {
	store, mr := newTestStore(t, redis.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", sampleResult()))
	assert.True(t, mr.Exists("custom:abc"))
}

func TestStore_TTLExpiry(t *testing.T) {
	store, mr := newTestStore(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", sampleResult()))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrResultNotFound)
}
