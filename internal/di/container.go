// Package di provides dependency injection configuration for the AnimeVault server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/animevault/animevault-server/internal/catalog"
	"github.com/animevault/animevault-server/internal/config"
	"github.com/animevault/animevault-server/internal/di/providers"
	"github.com/animevault/animevault-server/internal/logger"
	"github.com/animevault/animevault-server/internal/retry"
	"github.com/animevault/animevault-server/internal/service"
	"github.com/animevault/animevault-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Upstream catalog
	do.Provide(injector, providers.ProvideRetryExecutor)
	do.Provide(injector, providers.ProvideCatalogClient)

	// Business services
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideSessionService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services, which starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*retry.Executor](injector)
	_ = do.MustInvoke[*catalog.Client](injector)

	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
