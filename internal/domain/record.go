package domain

// Genre is a catalog genre tag.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CatalogRecord is the canonical representation of one catalog item.
// Records are values: merging preference data yields a new record.
type CatalogRecord struct {
	ID           int      `json:"id"`
	Kind         Kind     `json:"kind"`
	Title        string   `json:"title"`
	TitleNative  string   `json:"title_native,omitempty"`
	TitleEnglish string   `json:"title_english,omitempty"`
	ImageURL     string   `json:"image_url"`
	ImageSmall   string   `json:"image_small_url,omitempty"`
	ImageLarge   string   `json:"image_large_url,omitempty"`
	Synopsis     string   `json:"synopsis"`
	Score        *float64 `json:"score,omitempty"`
	Status       string   `json:"status"`
	Type         string   `json:"type"`
	Source       string   `json:"source,omitempty"`
	Rating       string   `json:"rating,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Genres       []Genre  `json:"genres"`

	// Anime quantities.
	Episodes int    `json:"episodes"`
	Year     int    `json:"year,omitempty"`
	Season   string `json:"season,omitempty"`

	// Manga quantities.
	Chapters int `json:"chapters"`
	Volumes  int `json:"volumes"`

	// Set only by a preference merge.
	WatchStatus WatchStatus `json:"watch_status,omitempty"`
	Favorite    bool        `json:"favorite,omitempty"`
}

// HasScore reports whether the upstream rated this item.
func (r CatalogRecord) HasScore() bool {
	return r.Score != nil
}

// WithPreference returns a copy of r annotated with favorite membership
// and watch status. Genres are copied so the result shares no state with r.
func (r CatalogRecord) WithPreference(favorite bool, status WatchStatus) CatalogRecord {
	merged := r
	merged.Favorite = favorite
	merged.WatchStatus = status
	if r.Genres != nil {
		merged.Genres = append([]Genre(nil), r.Genres...)
	}
	if r.Score != nil {
		score := *r.Score
		merged.Score = &score
	}
	return merged
}

// Pagination describes the upstream paging state of a result list.
type Pagination struct {
	CurrentPage     int  `json:"current_page"`
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	Count           int  `json:"count"`
	Total           int  `json:"total"`
	PerPage         int  `json:"per_page"`
}

// Page is one page of catalog records.
type Page struct {
	Records    []CatalogRecord `json:"records"`
	Pagination Pagination      `json:"pagination"`
}
