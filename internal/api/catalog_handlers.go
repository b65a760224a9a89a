package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/animevault/animevault-server/internal/catalog"
	"github.com/animevault/animevault-server/internal/domain"
	domainerrors "github.com/animevault/animevault-server/internal/errors"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/{kind}/search",
		Summary:     "Search a catalog",
		Description: "Searches anime or manga. Without an explicit sort, results are ordered by score descending.",
		Tags:        []string{"Catalog"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "topRated",
		Method:      http.MethodGet,
		Path:        "/api/v1/{kind}/top",
		Summary:     "Top rated items",
		Tags:        []string{"Catalog"},
	}, s.handleTopRated)

	huma.Register(s.api, huma.Operation{
		OperationID: "recommended",
		Method:      http.MethodGet,
		Path:        "/api/v1/{kind}/recommended",
		Summary:     "Recommended items",
		Description: "Items scored 8.5 or higher, best first",
		Tags:        []string{"Catalog"},
	}, s.handleRecommended)

	huma.Register(s.api, huma.Operation{
		OperationID: "seasonalAnime",
		Method:      http.MethodGet,
		Path:        "/api/v1/anime/seasonal",
		Summary:     "Anime airing this season",
		Tags:        []string{"Catalog"},
	}, s.handleSeasonal)

	huma.Register(s.api, huma.Operation{
		OperationID: "randomAnime",
		Method:      http.MethodGet,
		Path:        "/api/v1/anime/random",
		Summary:     "A random anime",
		Tags:        []string{"Catalog"},
	}, s.handleRandom)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogItem",
		Method:      http.MethodGet,
		Path:        "/api/v1/{kind}/{id}",
		Summary:     "Get a catalog item",
		Tags:        []string{"Catalog"},
	}, s.handleGetItem)
}

// SearchInput contains the search filters. Scores are strings so that an
// absent filter can be told apart from zero.
type SearchInput struct {
	Kind     string `path:"kind" doc:"Catalog kind: anime or manga"`
	Query    string `query:"q" doc:"Free-text query"`
	Genres   string `query:"genres" doc:"Comma-separated genre ids"`
	Year     int    `query:"year" doc:"Release year"`
	Season   string `query:"season" doc:"winter, spring, summer or fall (anime only)"`
	Status   string `query:"status" doc:"Airing or publishing status"`
	Rating   string `query:"rating" doc:"Audience rating (anime only)"`
	Type     string `query:"type" doc:"Format, e.g. tv, movie, manga"`
	MinScore string `query:"min_score" doc:"Minimum score, 0-10"`
	MaxScore string `query:"max_score" doc:"Maximum score, 0-10"`
	OrderBy  string `query:"order_by" doc:"Sort field (default: score)"`
	Sort     string `query:"sort" doc:"asc or desc (default: desc)"`
	Page     int    `query:"page" doc:"Page number, starting at 1"`
	Limit    int    `query:"limit" doc:"Page size, at most 25"`
}

// PageInput selects a page of a catalog list.
type PageInput struct {
	Kind string `path:"kind" doc:"Catalog kind: anime or manga"`
	Page int    `query:"page" doc:"Page number, starting at 1"`
}

// SeasonalInput selects a page of the seasonal list.
type SeasonalInput struct {
	Page int `query:"page" doc:"Page number, starting at 1"`
}

// ItemInput identifies one catalog item.
type ItemInput struct {
	Kind string `path:"kind" doc:"Catalog kind: anime or manga"`
	ID   int    `path:"id" doc:"Upstream item id"`
}

// PageOutput wraps a page of catalog records.
type PageOutput struct {
	Body domain.Page
}

// RecordOutput wraps a single catalog record.
type RecordOutput struct {
	Body domain.CatalogRecord
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*PageOutput, error) {
	kind, err := parseKind(input.Kind)
	if err != nil {
		return nil, toAPIError(err)
	}
	params, err := input.params()
	if err != nil {
		return nil, toAPIError(err)
	}

	page, err := s.services.Catalog.Search(ctx, kind, params)
	if err != nil {
		return nil, s.catalogError("search", err)
	}
	return &PageOutput{Body: page}, nil
}

func (s *Server) handleTopRated(ctx context.Context, input *PageInput) (*PageOutput, error) {
	kind, err := parseKind(input.Kind)
	if err != nil {
		return nil, toAPIError(err)
	}
	page, err := s.services.Catalog.TopRated(ctx, kind, input.Page)
	if err != nil {
		return nil, s.catalogError("top rated", err)
	}
	return &PageOutput{Body: page}, nil
}

func (s *Server) handleRecommended(ctx context.Context, input *PageInput) (*PageOutput, error) {
	kind, err := parseKind(input.Kind)
	if err != nil {
		return nil, toAPIError(err)
	}
	page, err := s.services.Catalog.Recommended(ctx, kind, input.Page)
	if err != nil {
		return nil, s.catalogError("recommended", err)
	}
	return &PageOutput{Body: page}, nil
}

func (s *Server) handleSeasonal(ctx context.Context, input *SeasonalInput) (*PageOutput, error) {
	page, err := s.services.Catalog.Seasonal(ctx, input.Page)
	if err != nil {
		return nil, s.catalogError("seasonal", err)
	}
	return &PageOutput{Body: page}, nil
}

func (s *Server) handleRandom(ctx context.Context, _ *struct{}) (*RecordOutput, error) {
	rec, err := s.services.Catalog.Random(ctx)
	if err != nil {
		return nil, s.catalogError("random", err)
	}
	return &RecordOutput{Body: rec}, nil
}

func (s *Server) handleGetItem(ctx context.Context, input *ItemInput) (*RecordOutput, error) {
	kind, err := parseKind(input.Kind)
	if err != nil {
		return nil, toAPIError(err)
	}
	rec, err := s.services.Catalog.Get(ctx, kind, input.ID)
	if err != nil {
		return nil, s.catalogError("get item", err)
	}
	return &RecordOutput{Body: rec}, nil
}

// params converts query input into catalog filters, applying the default
// score-descending order when the caller chose none.
func (in *SearchInput) params() (catalog.SearchParams, error) {
	details := map[string]string{}

	p := catalog.SearchParams{
		Query:   strings.TrimSpace(in.Query),
		Year:    in.Year,
		Season:  in.Season,
		Status:  in.Status,
		Rating:  in.Rating,
		Type:    in.Type,
		OrderBy: in.OrderBy,
		Sort:    in.Sort,
		Page:    in.Page,
		Limit:   in.Limit,
	}
	if p.OrderBy == "" && p.Sort == "" {
		p.OrderBy = "score"
		p.Sort = catalog.SortDesc
	}

	for _, raw := range strings.Split(in.Genres, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		genre, err := strconv.Atoi(raw)
		if err != nil {
			details["genres"] = "must be a comma-separated list of ids"
			break
		}
		p.Genres = append(p.Genres, genre)
	}

	var err error
	if p.MinScore, err = parseScore(in.MinScore); err != nil {
		details["min_score"] = "must be a number"
	}
	if p.MaxScore, err = parseScore(in.MaxScore); err != nil {
		details["max_score"] = "must be a number"
	}

	if len(details) > 0 {
		return catalog.SearchParams{}, domainerrors.ValidationWithDetails("validation failed", details)
	}
	return p, nil
}

func parseScore(raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func parseKind(raw string) (domain.Kind, error) {
	kind := domain.Kind(strings.ToLower(raw))
	if !kind.Valid() {
		return "", domainerrors.ValidationWithDetails("validation failed", map[string]string{"kind": "must be anime or manga"})
	}
	return kind, nil
}

// catalogError logs upstream trouble and converts err for the response.
func (s *Server) catalogError(op string, err error) error {
	switch domainerrors.CodeOf(err) {
	case domainerrors.CodeNotFound, domainerrors.CodeValidation:
	default:
		s.logger.Warn("catalog request failed", "op", op, "error", err)
	}
	return toAPIError(err)
}
