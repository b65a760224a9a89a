package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/animevault/animevault-server/internal/domain"
	apperrors "github.com/animevault/animevault-server/internal/errors"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SearchParams are the recognized search filters. Zero values are unset and
// are not sent upstream.
type SearchParams struct {
	Query    string   `query:"q" validate:"max=200"`
	Genres   []int    `query:"genres" validate:"dive,gt=0"`
	Year     int      `query:"year" validate:"gte=0,lte=9999"`
	Season   string   `query:"season" validate:"season"`
	Status   string   `query:"status" validate:"max=40"`
	Rating   string   `query:"rating" validate:"max=40"`
	Type     string   `query:"type" validate:"max=40"`
	MinScore *float64 `query:"min_score" validate:"omitempty,gte=0,lte=10"`
	MaxScore *float64 `query:"max_score" validate:"omitempty,gte=0,lte=10"`
	OrderBy  string   `query:"order_by" validate:"max=40"`
	Sort     string   `query:"sort" validate:"omitempty,oneof=asc desc"`
	Page     int      `query:"page" validate:"gte=0"`
	Limit    int      `query:"limit" validate:"gte=0,lte=25"`
}

// validate checks field bounds and the filters kind supports.
func (p SearchParams) validate(c *Client, kind domain.Kind) error {
	if err := c.validator.Validate(p); err != nil {
		return err
	}

	details := map[string]string{}
	if p.MinScore != nil && p.MaxScore != nil && *p.MinScore > *p.MaxScore {
		details["max_score"] = "must be greater than or equal to min_score"
	}
	if !kind.IsPrimary() {
		if p.Season != "" {
			details["season"] = "is not supported for " + string(kind)
		}
		if p.Rating != "" {
			details["rating"] = "is not supported for " + string(kind)
		}
	}
	if len(details) > 0 {
		return apperrors.ValidationWithDetails("validation failed", details)
	}
	return nil
}

// encode renders the set filters as upstream query parameters.
func (p SearchParams) encode() url.Values {
	q := url.Values{}

	setString := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			q.Set(key, v)
		}
	}
	setInt := func(key string, value int) {
		if value > 0 {
			q.Set(key, strconv.Itoa(value))
		}
	}
	setScore := func(key string, value *float64) {
		if value != nil {
			q.Set(key, strconv.FormatFloat(*value, 'f', -1, 64))
		}
	}

	setString("q", p.Query)
	if len(p.Genres) > 0 {
		ids := make([]string, len(p.Genres))
		for i, g := range p.Genres {
			ids[i] = strconv.Itoa(g)
		}
		q.Set("genres", strings.Join(ids, ","))
	}
	setInt("year", p.Year)
	setString("season", p.Season)
	setString("status", p.Status)
	setString("rating", p.Rating)
	setString("type", p.Type)
	setScore("min_score", p.MinScore)
	setScore("max_score", p.MaxScore)
	if p.OrderBy != "" {
		q.Set("order_by", p.OrderBy)
		sort := p.Sort
		if sort == "" {
			sort = SortDesc
		}
		q.Set("sort", sort)
	} else {
		setString("sort", p.Sort)
	}
	setInt("page", p.Page)
	setInt("limit", p.Limit)

	return q
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}
