package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"spice-storefront/internal/model"
	"spice-storefront/internal/resolver"
	"spice-storefront/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlot(seq uint64, at time.Time, slugs ...string) resolver.Slot {
	products := make([]model.Product, 0, len(slugs))
	for _, s := range slugs {
		products = append(products, model.Product{
			ID:    model.ID("id-" + s),
			Slug:  s,
			Name:  s,
			Price: model.NewAmount(10),
		})
	}
	return resolver.Slot{Products: products, Seq: seq, FetchedAt: at}
}

// storeContract runs the behaviour every tab store backend must share.
func storeContract(t *testing.T, newStore func(t *testing.T) session.Store) {
	t.Run("Save and load", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		now := time.Now().UTC().Truncate(time.Millisecond)

		applied, err := store.Save(ctx, "s1", "all", testSlot(1, now, "saffron"))
		require.NoError(t, err)
		assert.True(t, applied)

		applied, err = store.Save(ctx, "s1", "3", testSlot(2, now, "cumin", "clove"))
		require.NoError(t, err)
		assert.True(t, applied)

		slots, err := store.Load(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, uint64(2), slots["3"].Seq)
		assert.Equal(t, "clove", slots["3"].Products[1].Slug)
		assert.Equal(t, 10.0, slots["3"].Products[0].Price.Value)
		assert.True(t, now.Equal(slots["all"].FetchedAt))

		empty, err := store.Load(ctx, "unknown")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("Stale write ignored", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		now := time.Now()

		// 1000 vs 999 exercises digit-count ordering
		_, err := store.Save(ctx, "s2", "all", testSlot(1000, now, "new"))
		require.NoError(t, err)

		applied, err := store.Save(ctx, "s2", "all", testSlot(999, now, "old"))
		require.NoError(t, err)
		assert.False(t, applied)

		applied, err = store.Save(ctx, "s2", "all", testSlot(1000, now, "same"))
		require.NoError(t, err)
		assert.False(t, applied)

		applied, err = store.Save(ctx, "s2", "all", testSlot(1001, now, "newer"))
		require.NoError(t, err)
		assert.True(t, applied)

		slots, err := store.Load(ctx, "s2")
		require.NoError(t, err)
		assert.Equal(t, "newer", slots["all"].Products[0].Slug)
	})

	t.Run("Concurrent tabs do not conflict", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		now := time.Now()

		var wg sync.WaitGroup
		for i := 1; i <= 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := store.Save(ctx, "s3", fmt.Sprint(i), testSlot(uint64(i), now, fmt.Sprintf("p%d", i)))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		slots, err := store.Load(ctx, "s3")
		require.NoError(t, err)
		assert.Len(t, slots, 8)
	})

	t.Run("Selectors shaped like internal fields stay separate", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		now := time.Now()

		selectors := []string{"5", "seq:5", "#seq:5", "slot:5"}
		for i, sel := range selectors {
			applied, err := store.Save(ctx, "s4", sel, testSlot(uint64(10-i), now, "p-"+sel))
			require.NoError(t, err)
			require.True(t, applied, sel)
		}

		// A lower generation on "seq:5" must not lower the guard for "5".
		applied, err := store.Save(ctx, "s4", "5", testSlot(11, now, "p-5-newer"))
		require.NoError(t, err)
		assert.True(t, applied)

		applied, err = store.Save(ctx, "s4", "5", testSlot(9, now, "p-5-stale"))
		require.NoError(t, err)
		assert.False(t, applied)

		slots, err := store.Load(ctx, "s4")
		require.NoError(t, err)
		require.Len(t, slots, len(selectors))
		assert.Equal(t, "p-5-newer", slots["5"].Products[0].Slug)
		for _, sel := range selectors[1:] {
			require.Contains(t, slots, sel)
			assert.Equal(t, "p-"+sel, slots[sel].Products[0].Slug)
		}
	})

	t.Run("Empty session rejected", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Save(context.Background(), "", "all", testSlot(1, time.Now()))
		assert.ErrorIs(t, err, session.ErrInvalidSession)
	})
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)

	storeContract(t, func(t *testing.T) session.Store {
		CleanupDB(t, testDB.Pool)
		return session.NewPostgresStore(testDB.Pool, zerolog.Nop())
	})

	t.Run("Prune removes old slots", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		ctx := context.Background()
		store := session.NewPostgresStore(testDB.Pool, zerolog.Nop())
		now := time.Now()

		_, err := store.Save(ctx, "s1", "all", testSlot(1, now.Add(-2*time.Hour), "old"))
		require.NoError(t, err)
		_, err = store.Save(ctx, "s1", "3", testSlot(2, now, "fresh"))
		require.NoError(t, err)

		removed, err := store.Prune(ctx, now.Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		slots, err := store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Len(t, slots, 1)
		assert.Contains(t, slots, "3")
	})
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client := SetupTestRedis(t)

	storeContract(t, func(t *testing.T) session.Store {
		require.NoError(t, client.FlushDB(context.Background()).Err())
		return session.NewRedisStore(client, time.Minute, zerolog.Nop())
	})

	t.Run("Session expires", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, client.FlushDB(ctx).Err())
		store := session.NewRedisStore(client, time.Minute, zerolog.Nop())

		_, err := store.Save(ctx, "s1", "all", testSlot(1, time.Now(), "a"))
		require.NoError(t, err)

		ttl, err := client.PTTL(ctx, "storefront:tabs:s1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})
}
