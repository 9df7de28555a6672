package ttlcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAfterSet(t *testing.T) {
	t.Parallel()

	store := New[string](time.Minute)
	store.Set("geo:en:lima", "cached")

	got, found := store.Get("geo:en:lima")
	require.True(t, found)
	assert.Equal(t, "cached", got)
}

func TestMissOnUnknownKey(t *testing.T) {
	t.Parallel()

	store := New[int](time.Minute)
	_, found := store.Get("absent")
	assert.False(t, found)
}

func TestExpiredEntryReadsAsMiss(t *testing.T) {
	t.Parallel()

	store := New[string](time.Minute)
	store.SetTTL("k", "v", 10*time.Millisecond)

	got, found := store.Get("k")
	require.True(t, found)
	assert.Equal(t, "v", got)

	time.Sleep(30 * time.Millisecond)

	_, found = store.Get("k")
	assert.False(t, found, "expired entry must read as a miss")

	// A subsequent write under the same key is accepted.
	store.Set("k", "v2")
	got, found = store.Get("k")
	require.True(t, found)
	assert.Equal(t, "v2", got)
}

func TestOverwriteReplacesValue(t *testing.T) {
	t.Parallel()

	store := New[[]int](time.Minute)
	store.Set("days", []int{1, 2})
	store.Set("days", []int{3})

	got, found := store.Get("days")
	require.True(t, found)
	assert.Equal(t, []int{3}, got)
}
