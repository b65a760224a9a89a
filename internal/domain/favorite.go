package domain

import "time"

// FavoriteEntry is a user-curated membership record.
// At most one entry exists per ItemID.
type FavoriteEntry struct {
	ItemID      int           `json:"item_id"`
	Kind        Kind          `json:"kind"`
	Snapshot    CatalogRecord `json:"snapshot"`
	WatchStatus WatchStatus   `json:"watch_status,omitempty"`
	AddedAt     time.Time     `json:"added_at"`
}

// NewFavoriteEntry builds an entry from a record snapshot.
// Preference annotations on the snapshot are cleared; the entry owns them.
func NewFavoriteEntry(record CatalogRecord, status WatchStatus, now time.Time) FavoriteEntry {
	return FavoriteEntry{
		ItemID:      record.ID,
		Kind:        record.Kind,
		Snapshot:    record.WithPreference(false, StatusNone),
		WatchStatus: status,
		AddedAt:     now,
	}
}
