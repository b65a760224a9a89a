package service

import (
	"context"
	"log/slog"

	"github.com/animevault/animevault-server/internal/catalog"
	"github.com/animevault/animevault-server/internal/domain"
	"github.com/animevault/animevault-server/internal/store"
)

// CatalogService serves catalog lookups annotated with the user's favorites
// and watch statuses.
type CatalogService struct {
	catalog *catalog.Client
	store   *store.Store
	logger  *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(client *catalog.Client, store *store.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog: client,
		store:   store,
		logger:  logger,
	}
}

// Search runs a filtered search against kind's catalog.
func (s *CatalogService) Search(ctx context.Context, kind domain.Kind, params catalog.SearchParams) (domain.Page, error) {
	res, err := s.catalog.Resource(kind)
	if err != nil {
		return domain.Page{}, err
	}
	page, err := res.Search(ctx, params)
	if err != nil {
		return domain.Page{}, err
	}
	return s.mergePage(ctx, page)
}

// Get fetches a single record.
func (s *CatalogService) Get(ctx context.Context, kind domain.Kind, id int) (domain.CatalogRecord, error) {
	res, err := s.catalog.Resource(kind)
	if err != nil {
		return domain.CatalogRecord{}, err
	}
	rec, err := res.GetByID(ctx, id)
	if err != nil {
		return domain.CatalogRecord{}, err
	}
	return s.mergeRecord(ctx, rec)
}

// TopRated returns kind's top list.
func (s *CatalogService) TopRated(ctx context.Context, kind domain.Kind, page int) (domain.Page, error) {
	res, err := s.catalog.Resource(kind)
	if err != nil {
		return domain.Page{}, err
	}
	result, err := res.TopRated(ctx, page)
	if err != nil {
		return domain.Page{}, err
	}
	return s.mergePage(ctx, result)
}

// Recommended returns kind's highly rated items.
func (s *CatalogService) Recommended(ctx context.Context, kind domain.Kind, page int) (domain.Page, error) {
	res, err := s.catalog.Resource(kind)
	if err != nil {
		return domain.Page{}, err
	}
	result, err := res.Recommended(ctx, page)
	if err != nil {
		return domain.Page{}, err
	}
	return s.mergePage(ctx, result)
}

// Seasonal returns the anime airing this season.
func (s *CatalogService) Seasonal(ctx context.Context, page int) (domain.Page, error) {
	result, err := s.catalog.Anime().Seasonal(ctx, page)
	if err != nil {
		return domain.Page{}, err
	}
	return s.mergePage(ctx, result)
}

// Random returns a random anime.
func (s *CatalogService) Random(ctx context.Context) (domain.CatalogRecord, error) {
	rec, err := s.catalog.Anime().Random(ctx)
	if err != nil {
		return domain.CatalogRecord{}, err
	}
	return s.mergeRecord(ctx, rec)
}

func (s *CatalogService) mergePage(ctx context.Context, page domain.Page) (domain.Page, error) {
	prefs, err := s.preferences(ctx)
	if err != nil {
		return domain.Page{}, err
	}

	merged := make([]domain.CatalogRecord, len(page.Records))
	for i, rec := range page.Records {
		merged[i] = prefs.apply(rec)
	}
	return domain.Page{Records: merged, Pagination: page.Pagination}, nil
}

func (s *CatalogService) mergeRecord(ctx context.Context, rec domain.CatalogRecord) (domain.CatalogRecord, error) {
	prefs, err := s.preferences(ctx)
	if err != nil {
		return domain.CatalogRecord{}, err
	}
	return prefs.apply(rec), nil
}

// preferenceIndex maps favorite item ids to their entries.
type preferenceIndex map[int]domain.FavoriteEntry

func (s *CatalogService) preferences(ctx context.Context) (preferenceIndex, error) {
	favorites, err := s.store.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(preferenceIndex, len(favorites))
	for _, f := range favorites {
		idx[f.ItemID] = f
	}
	return idx, nil
}

// apply annotates rec. An entry saved for the other kind under the same id
// does not count.
func (p preferenceIndex) apply(rec domain.CatalogRecord) domain.CatalogRecord {
	entry, ok := p[rec.ID]
	if !ok || entry.Kind != rec.Kind {
		return rec.WithPreference(false, domain.StatusNone)
	}
	return rec.WithPreference(true, entry.WatchStatus)
}
