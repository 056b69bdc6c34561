package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/packscheduler/internal/mocks"
)

type seatLookup struct {
	Name    string
	Section string
}

func lookupSeats(ctx context.Context, in seatLookup) (seatCount, error) {
	return seatCount{Course: in.Name + "-" + in.Section, Open: 10}, nil
}

func failLookup(ctx context.Context, in seatLookup) (seatCount, error) {
	return seatCount{}, errors.New("catalog unavailable")
}

var sdf = seatLookup{Name: "CSC216", Section: "001"}

func TestReadThroughCache_SkipCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[courseKey, seatCount](t)
	rtc := NewReadThroughCache[courseKey, seatCount, seatLookup](managerMock, lookupSeats, true)

	got, err := rtc.Get(context.Background(), "CSC216-001", sdf, time.Minute)
	require.NoError(t, err)
	require.Equal(t, seatCount{Course: "CSC216-001", Open: 10}, got)

	got, err = rtc.GetWithRefresh(context.Background(), "CSC216-001", sdf, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 10, got.Open)

	// Nothing is cached so nothing is invalidated.
	require.NoError(t, rtc.Invalidate(context.Background(), "CSC216-001"))
	require.NoError(t, rtc.Reset(context.Background()))
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[courseKey, seatCount](t)
	managerMock.EXPECT().Get(mock.Anything, courseKey("CSC216-001")).Return(seatCount{Course: "CSC216-001", Open: 3}, true)

	rtc := NewReadThroughCache[courseKey, seatCount, seatLookup](managerMock, lookupSeats, false)

	got, err := rtc.Get(context.Background(), "CSC216-001", sdf, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 3, got.Open)
}

func TestReadThroughCache_Get_EmptyCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[courseKey, seatCount](t)
	managerMock.EXPECT().Get(mock.Anything, courseKey("CSC216-001")).Return(seatCount{}, false)
	managerMock.EXPECT().Set(mock.Anything, courseKey("CSC216-001"), seatCount{Course: "CSC216-001", Open: 10}, time.Minute).Return()

	rtc := NewReadThroughCache[courseKey, seatCount, seatLookup](managerMock, lookupSeats, false)

	got, err := rtc.Get(context.Background(), "CSC216-001", sdf, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 10, got.Open)
}

func TestReadThroughCache_Get_LoaderError(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[courseKey, seatCount](t)
	managerMock.EXPECT().Get(mock.Anything, courseKey("CSC216-001")).Return(seatCount{}, false)

	rtc := NewReadThroughCache[courseKey, seatCount, seatLookup](managerMock, failLookup, false)

	_, err := rtc.Get(context.Background(), "CSC216-001", sdf, time.Minute)
	require.EqualError(t, err, "catalog unavailable")
}

func TestReadThroughCache_GetWithRefresh(t *testing.T) {
	tests := []struct {
		name    string
		cached  bool
		loader  func(context.Context, seatLookup) (seatCount, error)
		wantErr bool
	}{
		{name: "value in cache", cached: true, loader: lookupSeats},
		{name: "empty cache", loader: lookupSeats},
		{name: "loader error", loader: failLookup, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			managerMock := mocks.NewMockCacheManager[courseKey, seatCount](t)
			if tt.cached {
				managerMock.EXPECT().GetWithRefresh(mock.Anything, courseKey("CSC216-001"), mock.Anything).Return(seatCount{Open: 10}, true)
			} else {
				managerMock.EXPECT().GetWithRefresh(mock.Anything, courseKey("CSC216-001"), mock.Anything).Return(seatCount{}, false)
			}
			if !tt.cached && !tt.wantErr {
				managerMock.EXPECT().Set(mock.Anything, courseKey("CSC216-001"), mock.Anything, time.Minute).Return()
			}

			rtc := NewReadThroughCache[courseKey, seatCount, seatLookup](managerMock, tt.loader, false)
			got, err := rtc.GetWithRefresh(context.Background(), "CSC216-001", sdf, time.Minute)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, 10, got.Open)
		})
	}
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[courseKey, seatCount](t)
	managerMock.EXPECT().Delete(mock.Anything, courseKey("CSC216-001"), courseKey("CSC216-002")).Return(nil)
	managerMock.EXPECT().Flush(mock.Anything).Return(nil)

	rtc := NewReadThroughCache[courseKey, seatCount, seatLookup](managerMock, lookupSeats, false)
	require.NoError(t, rtc.Invalidate(context.Background(), "CSC216-001", "CSC216-002"))
	require.NoError(t, rtc.Reset(context.Background()))
}

func TestReadThroughCache_WithInMemoryManager(t *testing.T) {
	calls := 0
	loader := func(ctx context.Context, in seatLookup) (seatCount, error) {
		calls++
		return lookupSeats(ctx, in)
	}
	rtc := NewReadThroughCache[courseKey, seatCount, seatLookup](newSeatCache(), loader, false)

	for range 3 {
		_, err := rtc.Get(context.Background(), "CSC216-001", sdf, time.Minute)
		require.NoError(t, err)
	}
	require.Equal(t, 1, calls)

	require.NoError(t, rtc.Invalidate(context.Background(), "CSC216-001"))
	_, err := rtc.Get(context.Background(), "CSC216-001", sdf, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
