package providers

import (
	"github.com/samber/do/v2"

	"github.com/animevault/animevault-server/internal/catalog"
	"github.com/animevault/animevault-server/internal/logger"
	"github.com/animevault/animevault-server/internal/service"
)

// ProvideCatalogService provides the catalog browsing service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	client := do.MustInvoke[*catalog.Client](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewCatalogService(client, storeHandle.Store, log.Component("catalog_service")), nil
}

// ProvideLibraryService provides the favorites and history service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	client := do.MustInvoke[*catalog.Client](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewLibraryService(client, storeHandle.Store, log.Component("library_service")), nil
}

// ProvideSessionService provides the local session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewSessionService(storeHandle.Store, log.Component("session_service")), nil
}
