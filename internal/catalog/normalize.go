package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/animevault/animevault-server/internal/domain"
	apperrors "github.com/animevault/animevault-server/internal/errors"
)

// Raw upstream payloads. Every field is optional except mal_id and title,
// which normalize checks explicitly.

type rawEnvelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination *rawPagination  `json:"pagination"`
}

type rawPagination struct {
	LastVisiblePage *int  `json:"last_visible_page"`
	HasNextPage     *bool `json:"has_next_page"`
	CurrentPage     *int  `json:"current_page"`
	Items           *struct {
		Count   *int `json:"count"`
		Total   *int `json:"total"`
		PerPage *int `json:"per_page"`
	} `json:"items"`
}

type rawImageSet struct {
	ImageURL      *string `json:"image_url"`
	SmallImageURL *string `json:"small_image_url"`
	LargeImageURL *string `json:"large_image_url"`
}

type rawGenre struct {
	MalID *int    `json:"mal_id"`
	Name  *string `json:"name"`
}

type rawRecord struct {
	MalID         *int    `json:"mal_id"`
	Title         *string `json:"title"`
	TitleJapanese *string `json:"title_japanese"`
	TitleEnglish  *string `json:"title_english"`
	Images        *struct {
		JPG  *rawImageSet `json:"jpg"`
		WebP *rawImageSet `json:"webp"`
	} `json:"images"`
	Synopsis *string    `json:"synopsis"`
	Score    *float64   `json:"score"`
	Status   *string    `json:"status"`
	Type     *string    `json:"type"`
	Source   *string    `json:"source"`
	Rating   *string    `json:"rating"`
	Duration *string    `json:"duration"`
	Genres   []rawGenre `json:"genres"`
	Episodes *int       `json:"episodes"`
	Year     *int       `json:"year"`
	Season   *string    `json:"season"`
	Chapters *int       `json:"chapters"`
	Volumes  *int       `json:"volumes"`
}

func decodeEnvelope(body []byte) (rawEnvelope, error) {
	var env rawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return env, apperrors.Wrap(err, apperrors.CodeInvalidResponse, "decode catalog response")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return env, apperrors.InvalidResponsef("catalog response has no data")
	}
	return env, nil
}

// decodePage normalizes a list response.
func decodePage(body []byte, kind domain.Kind) (domain.Page, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return domain.Page{}, err
	}

	var raws []rawRecord
	if err := json.Unmarshal(env.Data, &raws); err != nil {
		return domain.Page{}, apperrors.Wrap(err, apperrors.CodeInvalidResponse, "decode catalog list")
	}

	records := make([]domain.CatalogRecord, 0, len(raws))
	for i := range raws {
		rec, err := normalize(&raws[i], kind)
		if err != nil {
			return domain.Page{}, err
		}
		records = append(records, rec)
	}

	return domain.Page{
		Records:    records,
		Pagination: normalizePagination(env.Pagination, len(records)),
	}, nil
}

// decodeRecord normalizes a single-item response.
func decodeRecord(body []byte, kind domain.Kind) (domain.CatalogRecord, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return domain.CatalogRecord{}, err
	}

	var raw rawRecord
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return domain.CatalogRecord{}, apperrors.Wrap(err, apperrors.CodeInvalidResponse, "decode catalog record")
	}
	return normalize(&raw, kind)
}

// normalize maps one raw payload into a CatalogRecord, substituting defaults
// for absent optional fields.
func normalize(raw *rawRecord, kind domain.Kind) (domain.CatalogRecord, error) {
	if raw.MalID == nil || *raw.MalID <= 0 {
		return domain.CatalogRecord{}, apperrors.InvalidResponsef("%s record without a valid mal_id", kind)
	}
	title := cleanText(deref(raw.Title))
	if title == "" {
		return domain.CatalogRecord{}, apperrors.InvalidResponsef("%s %d has no title", kind, *raw.MalID)
	}

	rec := domain.CatalogRecord{
		ID:           *raw.MalID,
		Kind:         kind,
		Title:        title,
		TitleNative:  cleanText(deref(raw.TitleJapanese)),
		TitleEnglish: cleanText(deref(raw.TitleEnglish)),
		Synopsis:     synopsisText(deref(raw.Synopsis)),
		Status:       deref(raw.Status),
		Type:         deref(raw.Type),
		Source:       deref(raw.Source),
		Rating:       deref(raw.Rating),
		Duration:     deref(raw.Duration),
		Genres:       normalizeGenres(raw.Genres),
		Episodes:     derefInt(raw.Episodes),
		Year:         derefInt(raw.Year),
		Season:       deref(raw.Season),
		Chapters:     derefInt(raw.Chapters),
		Volumes:      derefInt(raw.Volumes),
	}
	if raw.Score != nil {
		score := *raw.Score
		rec.Score = &score
	}
	if raw.Images != nil {
		images := raw.Images.JPG
		if images == nil {
			images = raw.Images.WebP
		}
		if images != nil {
			rec.ImageURL = deref(images.ImageURL)
			rec.ImageSmall = deref(images.SmallImageURL)
			rec.ImageLarge = deref(images.LargeImageURL)
		}
	}

	return rec, nil
}

// normalizeGenres keeps upstream order and drops duplicate or unnamed entries.
func normalizeGenres(raw []rawGenre) []domain.Genre {
	genres := make([]domain.Genre, 0, len(raw))
	seen := make(map[int]bool, len(raw))
	for _, g := range raw {
		id := derefInt(g.MalID)
		name := cleanText(deref(g.Name))
		if id <= 0 || name == "" || seen[id] {
			continue
		}
		seen[id] = true
		genres = append(genres, domain.Genre{ID: id, Name: name})
	}
	return genres
}

func normalizePagination(raw *rawPagination, count int) domain.Pagination {
	p := domain.Pagination{
		CurrentPage:     1,
		LastVisiblePage: 1,
		Count:           count,
		Total:           count,
		PerPage:         count,
	}
	if raw == nil {
		return p
	}
	if raw.CurrentPage != nil {
		p.CurrentPage = *raw.CurrentPage
	}
	if raw.LastVisiblePage != nil {
		p.LastVisiblePage = *raw.LastVisiblePage
	}
	if raw.HasNextPage != nil {
		p.HasNextPage = *raw.HasNextPage
	}
	if items := raw.Items; items != nil {
		if items.Count != nil {
			p.Count = *items.Count
		}
		if items.Total != nil {
			p.Total = *items.Total
		}
		if items.PerPage != nil {
			p.PerPage = *items.PerPage
		}
	}
	return p
}

// SeasonForMonth returns the broadcast season containing month.
func SeasonForMonth(month time.Month) string {
	switch {
	case month <= time.March:
		return "winter"
	case month <= time.June:
		return "spring"
	case month <= time.September:
		return "summer"
	default:
		return "fall"
	}
}

// cleanText trims and NFC-normalizes display text so equal titles compare equal.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
