package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/animevault/animevault-server/internal/domain"
	domainerrors "github.com/animevault/animevault-server/internal/errors"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List favorites",
		Description: "Lists favorites in insertion order, optionally filtered by watch status",
		Tags:        []string{"Favorites"},
	}, s.handleListFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addFavorite",
		Method:        http.MethodPost,
		Path:          "/api/v1/favorites",
		Summary:       "Add a favorite",
		Description:   "Adds a catalog item to favorites. Adding an existing favorite returns it unchanged.",
		Tags:          []string{"Favorites"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFavorite",
		Method:      http.MethodDelete,
		Path:        "/api/v1/favorites/{id}",
		Summary:     "Remove a favorite",
		Tags:        []string{"Favorites"},
	}, s.handleRemoveFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "setWatchStatus",
		Method:      http.MethodPut,
		Path:        "/api/v1/favorites/{id}/status",
		Summary:     "Set watch status",
		Description: "Sets or clears the watch status of a favorite. Items that are not favorites are left untouched.",
		Tags:        []string{"Favorites"},
	}, s.handleSetStatus)
}

// ListFavoritesInput filters the favorites list.
type ListFavoritesInput struct {
	Status string `query:"status" doc:"all (default), none, watching, planned, completed, on_hold or dropped"`
}

// ListFavoritesOutput wraps the favorites list.
type ListFavoritesOutput struct {
	Body struct {
		Favorites []domain.FavoriteEntry `json:"favorites"`
		Count     int                    `json:"count"`
	}
}

// AddFavoriteRequest is the request body for adding a favorite.
type AddFavoriteRequest struct {
	Kind   string `json:"kind" validate:"required,catalog_kind" doc:"anime or manga"`
	ID     int    `json:"id" validate:"required,gt=0" doc:"Upstream item id"`
	Status string `json:"status,omitempty" validate:"omitempty,watch_status" doc:"Initial watch status"`
}

// AddFavoriteInput wraps the add request.
type AddFavoriteInput struct {
	Body AddFavoriteRequest
}

// AddFavoriteOutput returns the stored entry. Status is 201 for a new entry
// and 200 when the item was already a favorite.
type AddFavoriteOutput struct {
	Status int
	Body   struct {
		Favorite domain.FavoriteEntry `json:"favorite"`
		Added    bool                 `json:"added"`
	}
}

// FavoriteIDInput identifies a favorite.
type FavoriteIDInput struct {
	ID int `path:"id" doc:"Upstream item id"`
}

// RemoveFavoriteOutput reports whether an entry was removed.
type RemoveFavoriteOutput struct {
	Body struct {
		Removed bool `json:"removed"`
	}
}

// SetStatusInput sets a favorite's watch status.
type SetStatusInput struct {
	ID   int `path:"id" doc:"Upstream item id"`
	Body struct {
		Status string `json:"status" validate:"omitempty,watch_status" doc:"New status, empty to clear"`
	}
}

// SetStatusOutput reports whether a favorite was updated.
type SetStatusOutput struct {
	Body struct {
		Updated bool `json:"updated"`
	}
}

func (s *Server) handleListFavorites(ctx context.Context, input *ListFavoritesInput) (*ListFavoritesOutput, error) {
	filter, ok := domain.ParseStatusFilter(input.Status)
	if !ok {
		return nil, toAPIError(domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"status": "must be all, none, or a watch status",
		}))
	}

	favorites, err := s.services.Library.Favorites(ctx, filter)
	if err != nil {
		return nil, s.storeError("list favorites", err)
	}

	resp := &ListFavoritesOutput{}
	resp.Body.Favorites = favorites
	resp.Body.Count = len(favorites)
	return resp, nil
}

func (s *Server) handleAddFavorite(ctx context.Context, input *AddFavoriteInput) (*AddFavoriteOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, toAPIError(err)
	}

	entry, added, err := s.services.Library.AddFavorite(ctx,
		domain.Kind(input.Body.Kind), input.Body.ID, domain.WatchStatus(input.Body.Status))
	if err != nil {
		return nil, s.storeError("add favorite", err)
	}

	resp := &AddFavoriteOutput{Status: http.StatusCreated}
	if !added {
		resp.Status = http.StatusOK
	}
	resp.Body.Favorite = entry
	resp.Body.Added = added
	return resp, nil
}

func (s *Server) handleRemoveFavorite(ctx context.Context, input *FavoriteIDInput) (*RemoveFavoriteOutput, error) {
	removed, err := s.services.Library.RemoveFavorite(ctx, input.ID)
	if err != nil {
		return nil, s.storeError("remove favorite", err)
	}
	resp := &RemoveFavoriteOutput{}
	resp.Body.Removed = removed
	return resp, nil
}

func (s *Server) handleSetStatus(ctx context.Context, input *SetStatusInput) (*SetStatusOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, toAPIError(err)
	}

	updated, err := s.services.Library.SetStatus(ctx, input.ID, domain.WatchStatus(input.Body.Status))
	if err != nil {
		return nil, s.storeError("set status", err)
	}
	resp := &SetStatusOutput{}
	resp.Body.Updated = updated
	return resp, nil
}

// storeError logs persistence failures and converts err for the response.
func (s *Server) storeError(op string, err error) error {
	switch domainerrors.CodeOf(err) {
	case domainerrors.CodeValidation, domainerrors.CodeNotFound, domainerrors.CodeUnauthorized:
	default:
		s.logger.Error("request failed", "op", op, "error", err)
	}
	return toAPIError(err)
}
