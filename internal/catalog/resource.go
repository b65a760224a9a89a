package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/animevault/animevault-server/internal/domain"
	apperrors "github.com/animevault/animevault-server/internal/errors"
)

// RecommendedMinScore is the score floor for recommendations.
const RecommendedMinScore = 8.5

// Resource is the set of operations both catalogs support.
type Resource interface {
	Kind() domain.Kind
	Search(ctx context.Context, params SearchParams) (domain.Page, error)
	GetByID(ctx context.Context, id int) (domain.CatalogRecord, error)
	TopRated(ctx context.Context, page int) (domain.Page, error)
	Recommended(ctx context.Context, page int) (domain.Page, error)
}

// resource implements the operations shared by both catalogs.
type resource struct {
	client *Client
	kind   domain.Kind
}

// Kind returns the catalog kind this resource serves.
func (r resource) Kind() domain.Kind {
	return r.kind
}

// Search returns one page of records matching params.
func (r resource) Search(ctx context.Context, params SearchParams) (domain.Page, error) {
	if err := params.validate(r.client, r.kind); err != nil {
		return domain.Page{}, wrapError("search", r.kind, 0, err)
	}

	page, err := r.list(ctx, "/"+string(r.kind), params.encode())
	if err != nil {
		return domain.Page{}, wrapError("search", r.kind, 0, err)
	}
	return page, nil
}

// GetByID fetches a single record.
func (r resource) GetByID(ctx context.Context, id int) (domain.CatalogRecord, error) {
	if id <= 0 {
		return domain.CatalogRecord{}, wrapError("getByID", r.kind, id, apperrors.Validationf("id must be positive, got %d", id))
	}

	body, err := r.client.get(ctx, r.kind, "/"+string(r.kind)+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return domain.CatalogRecord{}, wrapError("getByID", r.kind, id, err)
	}
	rec, err := decodeRecord(body, r.kind)
	if err != nil {
		return domain.CatalogRecord{}, wrapError("getByID", r.kind, id, err)
	}
	return rec, nil
}

// TopRated returns the upstream top list.
func (r resource) TopRated(ctx context.Context, page int) (domain.Page, error) {
	result, err := r.list(ctx, "/top/"+string(r.kind), pageQuery(page))
	if err != nil {
		return domain.Page{}, wrapError("topRated", r.kind, 0, err)
	}
	return result, nil
}

// Recommended searches for highly rated items, best first.
func (r resource) Recommended(ctx context.Context, page int) (domain.Page, error) {
	minScore := RecommendedMinScore
	result, err := r.Search(ctx, SearchParams{
		MinScore: &minScore,
		OrderBy:  "score",
		Sort:     SortDesc,
		Page:     page,
	})
	if err != nil {
		var catalogErr *Error
		if errors.As(err, &catalogErr) {
			catalogErr.Op = "recommended"
		}
		return domain.Page{}, err
	}
	return result, nil
}

func (r resource) list(ctx context.Context, path string, query url.Values) (domain.Page, error) {
	body, err := r.client.get(ctx, r.kind, path, query)
	if err != nil {
		return domain.Page{}, err
	}
	return decodePage(body, r.kind)
}

// AnimeCatalog is the primary catalog. It adds seasonal and random lookups.
type AnimeCatalog struct {
	resource
}

// Seasonal returns the anime airing in the current season.
func (a *AnimeCatalog) Seasonal(ctx context.Context, page int) (domain.Page, error) {
	now := a.client.now()
	path := fmt.Sprintf("/seasons/%d/%s", now.Year(), SeasonForMonth(now.Month()))

	result, err := a.list(ctx, path, pageQuery(page))
	if err != nil {
		return domain.Page{}, wrapError("seasonal", a.kind, 0, err)
	}
	return result, nil
}

// Random returns one randomly chosen anime.
func (a *AnimeCatalog) Random(ctx context.Context) (domain.CatalogRecord, error) {
	body, err := a.client.get(ctx, a.kind, "/random/"+string(a.kind), nil)
	if err != nil {
		return domain.CatalogRecord{}, wrapError("random", a.kind, 0, err)
	}
	rec, err := decodeRecord(body, a.kind)
	if err != nil {
		return domain.CatalogRecord{}, wrapError("random", a.kind, 0, err)
	}
	return rec, nil
}

// MangaCatalog is the secondary catalog.
type MangaCatalog struct {
	resource
}
