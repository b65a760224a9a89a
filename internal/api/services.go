package api

import "github.com/animevault/animevault-server/internal/service"

// Services groups the business services used by the API server.
type Services struct {
	Catalog *service.CatalogService
	Library *service.LibraryService
	Session *service.SessionService
}
