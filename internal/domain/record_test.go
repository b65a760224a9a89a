package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCatalogRecord_WithPreferenceReturnsCopy(t *testing.T) {
	score := 8.7
	original := CatalogRecord{
		ID:     5114,
		Kind:   KindAnime,
		Title:  "Fullmetal Alchemist: Brotherhood",
		Score:  &score,
		Genres: []Genre{{ID: 1, Name: "Action"}},
	}

	merged := original.WithPreference(true, StatusWatching)
	merged.Genres[0].Name = "Changed"
	*merged.Score = 1

	assert.True(t, merged.Favorite)
	assert.Equal(t, StatusWatching, merged.WatchStatus)
	assert.False(t, original.Favorite)
	assert.Equal(t, StatusNone, original.WatchStatus)
	assert.Equal(t, "Action", original.Genres[0].Name)
	assert.InDelta(t, 8.7, *original.Score, 0.001)
}

func TestNewFavoriteEntry_ClearsSnapshotAnnotations(t *testing.T) {
	record := CatalogRecord{ID: 1, Kind: KindManga, Title: "Berserk"}.WithPreference(true, StatusDropped)
	now := time.Now()

	fav := NewFavoriteEntry(record, StatusPlanned, now)

	assert.Equal(t, 1, fav.ItemID)
	assert.Equal(t, KindManga, fav.Kind)
	assert.Equal(t, StatusPlanned, fav.WatchStatus)
	assert.False(t, fav.Snapshot.Favorite)
	assert.Equal(t, StatusNone, fav.Snapshot.WatchStatus)
	assert.Equal(t, now, fav.AddedAt)
}

func TestKind(t *testing.T) {
	assert.True(t, KindAnime.Valid())
	assert.True(t, KindManga.Valid())
	assert.False(t, Kind("novel").Valid())
	assert.True(t, KindAnime.IsPrimary())
	assert.False(t, KindManga.IsPrimary())
}
