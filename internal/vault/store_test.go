package vault

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// connectTestStore skips the test unless VAULT_TEST_DATABASE_URL is set —
// these exercise a real Postgres instance and are not run by default,
// matching how the rest of this stack's DB-backed tests are opt-in.
func connectTestStore(t *testing.T) *Store {
	t.Helper()
	connStr := os.Getenv("VAULT_TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("VAULT_TEST_DATABASE_URL not set, skipping vault integration test")
	}
	store, err := Connect(context.Background(), connStr)
	require.NoError(t, err)
	require.NoError(t, store.InitSchema(context.Background()))
	t.Cleanup(store.Close)
	return store
}

func TestUpsertTargetIsIdempotent(t *testing.T) {
	store := connectTestStore(t)
	ctx := context.Background()

	target := NewTarget("1TestIdempotentAddress00000000000", "randstorm")
	require.NoError(t, store.UpsertTarget(ctx, target))

	meta := "{\"engine\":\"v8-mwc1616\"}"
	target.MetadataJSON = &meta
	require.NoError(t, store.UpsertTarget(ctx, target))

	got, found, err := store.GetTarget(ctx, target.Address)
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, got.MetadataJSON)
	require.Equal(t, meta, *got.MetadataJSON)
}

func TestRecordAccessAdvancesCounterAndTimestamp(t *testing.T) {
	store := connectTestStore(t)
	ctx := context.Background()

	target := NewTarget("1TestAccessTrackingAddress0000000", "randstorm")
	require.NoError(t, store.UpsertTarget(ctx, target))

	before, found, err := store.GetTarget(ctx, target.Address)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 0, before.AccessCount)

	now := time.Now().Unix()
	require.NoError(t, store.RecordAccess(ctx, target.Address, now))

	after, found, err := store.GetTarget(ctx, target.Address)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1, after.AccessCount)
	require.NotNil(t, after.LastAccessed)
	require.InDelta(t, now, *after.LastAccessed, 5)
}

func TestQueryByClassPagination(t *testing.T) {
	store := connectTestStore(t)
	ctx := context.Background()

	var batch []Target
	for i := 0; i < 10; i++ {
		batch = append(batch, NewTarget(
			"1TestBrainwalletBatch"+string(rune('A'+i)),
			"brainwallet",
		))
	}
	require.NoError(t, store.UpsertTargetsBatch(ctx, batch))

	count, err := store.CountByClass(ctx, "brainwallet")
	require.NoError(t, err)
	require.GreaterOrEqual(t, count, int64(10))

	page, err := store.QueryByClass(ctx, "brainwallet", 5, 0)
	require.NoError(t, err)
	require.Len(t, page, 5)
}
