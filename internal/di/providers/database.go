package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/animevault/animevault-server/internal/config"
	"github.com/animevault/animevault-server/internal/logger"
	"github.com/animevault/animevault-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the preference database.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Storage.DataPath, "db")
	db, err := store.Open(dbPath, log.Component("store"))
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath, "schema_version", store.SchemaVersion)

	return &StoreHandle{Store: db}, nil
}
