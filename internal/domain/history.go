package domain

import "time"

// HistoryCapacity is the maximum number of entries kept in the watch history.
const HistoryCapacity = 20

// HistoryEntry records the most recent consumption of one item.
type HistoryEntry struct {
	ItemID         int       `json:"item_id"`
	Kind           Kind      `json:"kind"`
	Title          string    `json:"title"`
	ImageURL       string    `json:"image_url,omitempty"`
	LastConsumedAt time.Time `json:"last_consumed_at"`
	EpisodeNumber  *int      `json:"episode_number,omitempty"`
}

// PushHistory returns a new history with entry at the front.
// Any previous entry for the same item is dropped and the result is
// truncated to capacity from the tail. The input slice is not modified.
func PushHistory(history []HistoryEntry, entry HistoryEntry, capacity int) []HistoryEntry {
	next := make([]HistoryEntry, 0, min(len(history)+1, capacity))
	next = append(next, entry)
	for _, h := range history {
		if len(next) >= capacity {
			break
		}
		if h.ItemID == entry.ItemID {
			continue
		}
		next = append(next, h)
	}
	return next
}
