package domain

// WatchStatus is a user's progress label on a favorited item.
// The zero value means no status has been assigned.
type WatchStatus string

// WatchStatus values.
const (
	StatusNone      WatchStatus = ""
	StatusWatching  WatchStatus = "watching"
	StatusPlanned   WatchStatus = "planned"
	StatusCompleted WatchStatus = "completed"
	StatusOnHold    WatchStatus = "on_hold"
	StatusDropped   WatchStatus = "dropped"
)

// AllWatchStatuses returns the five assignable statuses.
func AllWatchStatuses() []WatchStatus {
	return []WatchStatus{StatusWatching, StatusPlanned, StatusCompleted, StatusOnHold, StatusDropped}
}

// Valid reports whether s is one of the five statuses or absent.
func (s WatchStatus) Valid() bool {
	switch s {
	case StatusNone, StatusWatching, StatusPlanned, StatusCompleted, StatusOnHold, StatusDropped:
		return true
	}
	return false
}

// IsSet reports whether a status has been assigned.
func (s WatchStatus) IsSet() bool {
	return s != StatusNone
}

// StatusFilter selects favorites by watch status.
type StatusFilter string

const (
	// StatusFilterAll matches every favorite.
	StatusFilterAll StatusFilter = "all"
	// StatusFilterNone matches favorites without a status.
	StatusFilterNone StatusFilter = "none"
)

// FilterFor returns the filter matching exactly status s.
func FilterFor(s WatchStatus) StatusFilter {
	if s == StatusNone {
		return StatusFilterNone
	}
	return StatusFilter(s)
}

// ParseStatusFilter accepts "all", "none", or one of the five statuses.
// An empty string is treated as "all".
func ParseStatusFilter(raw string) (StatusFilter, bool) {
	switch raw {
	case "", string(StatusFilterAll):
		return StatusFilterAll, true
	case string(StatusFilterNone):
		return StatusFilterNone, true
	}
	s := WatchStatus(raw)
	if s.Valid() {
		return StatusFilter(s), true
	}
	return "", false
}

// Matches reports whether an entry with status s passes the filter.
func (f StatusFilter) Matches(s WatchStatus) bool {
	switch f {
	case StatusFilterAll:
		return true
	case StatusFilterNone:
		return s == StatusNone
	default:
		return WatchStatus(f) == s
	}
}
