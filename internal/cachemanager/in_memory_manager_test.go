package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type courseKey string

type seatCount struct {
	Course string
	Open   int
}

func newSeatCache() *InMemoryCacheManager[courseKey, seatCount] {
	return NewInMemoryCacheManager[courseKey, seatCount]("seats", DefaultExpiration, DefaultCleanupInterval)
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := newSeatCache()
	want := seatCount{Course: "CSC216-001", Open: 4}
	cache.Set(context.Background(), "CSC216-001", want, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "CSC216-001")
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := newSeatCache()

	got, ok := cache.Get(context.Background(), "CSC216-001")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := newSeatCache()
	cache.cache.Set("CSC216-001", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "CSC216-001")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetMultiple(t *testing.T) {
	tests := []struct {
		name   string
		seed   map[string]any
		keys   []courseKey
		want   map[courseKey]seatCount
		wantOK bool
	}{
		{
			name: "no keys",
		},
		{
			name: "all missing",
			keys: []courseKey{"CSC216-001", "CSC226-001"},
		},
		{
			name:   "partial hit",
			seed:   map[string]any{"CSC216-001": seatCount{Course: "CSC216-001", Open: 2}},
			keys:   []courseKey{"CSC216-001", "CSC226-001"},
			want:   map[courseKey]seatCount{"CSC216-001": {Course: "CSC216-001", Open: 2}},
			wantOK: true,
		},
		{
			name: "wrong type counts as missing",
			seed: map[string]any{
				"CSC216-001": seatCount{Course: "CSC216-001", Open: 2},
				"CSC226-001": "ten",
			},
			keys:   []courseKey{"CSC216-001", "CSC226-001"},
			want:   map[courseKey]seatCount{"CSC216-001": {Course: "CSC216-001", Open: 2}},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newSeatCache()
			for k, v := range tt.seed {
				cache.cache.Set(k, v, DefaultExpiration)
			}

			got, ok := cache.GetMultiple(context.Background(), tt.keys)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := newSeatCache()

	_, ok := cache.GetWithRefresh(context.Background(), "CSC216-001", time.Hour)
	require.False(t, ok)

	cache.Set(context.Background(), "CSC216-001", seatCount{Open: 1}, time.Millisecond)
	got, ok := cache.GetWithRefresh(context.Background(), "CSC216-001", time.Hour)
	require.True(t, ok)
	require.Equal(t, 1, got.Open)

	// The refreshed ttl outlives the original one.
	time.Sleep(5 * time.Millisecond)
	_, ok = cache.Get(context.Background(), "CSC216-001")
	require.True(t, ok)
}

func TestInMemoryCacheManager_Delete(t *testing.T) {
	cache := newSeatCache()
	require.NoError(t, cache.Delete(context.Background()))

	cache.Set(context.Background(), "CSC216-001", seatCount{Open: 1}, DefaultExpiration)
	cache.Set(context.Background(), "CSC226-001", seatCount{Open: 2}, DefaultExpiration)

	require.NoError(t, cache.Delete(context.Background(), "CSC216-001"))

	_, ok := cache.Get(context.Background(), "CSC216-001")
	require.False(t, ok)
	_, ok = cache.Get(context.Background(), "CSC226-001")
	require.True(t, ok)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := newSeatCache()
	cache.Set(context.Background(), "CSC216-001", seatCount{Open: 1}, NoExpiration)
	cache.Set(context.Background(), "CSC226-001", seatCount{Open: 2}, NoExpiration)

	require.NoError(t, cache.Flush(context.Background()))
	require.Zero(t, cache.Len())

	_, ok := cache.Get(context.Background(), "CSC216-001")
	require.False(t, ok)
}
