package domain

// UserStats is a projection over the preference store and watch history.
// It is recomputed from the stores on demand and never persisted.
type UserStats struct {
	WatchedTotal     int                 `json:"watched_total"`
	WatchedByKind    map[Kind]int        `json:"watched_by_kind"`
	FavoritesTotal   int                 `json:"favorites_total"`
	FavoritesByKind  map[Kind]int        `json:"favorites_by_kind"`
	FavoritesByState map[WatchStatus]int `json:"favorites_by_status"`
	Unlabeled        int                 `json:"favorites_without_status"`
}

// ComputeUserStats builds stats from the full favorites and history collections.
func ComputeUserStats(favorites []FavoriteEntry, history []HistoryEntry) UserStats {
	stats := UserStats{
		WatchedTotal:     len(history),
		WatchedByKind:    make(map[Kind]int, 2),
		FavoritesTotal:   len(favorites),
		FavoritesByKind:  make(map[Kind]int, 2),
		FavoritesByState: make(map[WatchStatus]int, 5),
	}
	for _, k := range AllKinds() {
		stats.WatchedByKind[k] = 0
		stats.FavoritesByKind[k] = 0
	}
	for _, s := range AllWatchStatuses() {
		stats.FavoritesByState[s] = 0
	}

	for _, h := range history {
		stats.WatchedByKind[h.Kind]++
	}
	for _, f := range favorites {
		stats.FavoritesByKind[f.Kind]++
		if f.WatchStatus.IsSet() {
			stats.FavoritesByState[f.WatchStatus]++
		} else {
			stats.Unlabeled++
		}
	}
	return stats
}
