package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeUserStats(t *testing.T) {
	favorites := []FavoriteEntry{
		{ItemID: 1, Kind: KindAnime, WatchStatus: StatusWatching},
		{ItemID: 2, Kind: KindAnime},
		{ItemID: 3, Kind: KindManga, WatchStatus: StatusCompleted},
	}
	history := []HistoryEntry{
		{ItemID: 1, Kind: KindAnime},
		{ItemID: 9, Kind: KindManga},
		{ItemID: 10, Kind: KindManga},
	}

	stats := ComputeUserStats(favorites, history)

	assert.Equal(t, 3, stats.WatchedTotal)
	assert.Equal(t, 1, stats.WatchedByKind[KindAnime])
	assert.Equal(t, 2, stats.WatchedByKind[KindManga])
	assert.Equal(t, 3, stats.FavoritesTotal)
	assert.Equal(t, 2, stats.FavoritesByKind[KindAnime])
	assert.Equal(t, 1, stats.FavoritesByKind[KindManga])
	assert.Equal(t, 1, stats.FavoritesByState[StatusWatching])
	assert.Equal(t, 1, stats.FavoritesByState[StatusCompleted])
	assert.Equal(t, 0, stats.FavoritesByState[StatusDropped])
	assert.Equal(t, 1, stats.Unlabeled)
}

func TestComputeUserStats_Empty(t *testing.T) {
	stats := ComputeUserStats(nil, nil)

	assert.Zero(t, stats.WatchedTotal)
	assert.Zero(t, stats.FavoritesTotal)
	assert.Len(t, stats.FavoritesByState, 5)
	assert.Len(t, stats.FavoritesByKind, 2)
}
