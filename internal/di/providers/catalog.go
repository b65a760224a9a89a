package providers

import (
	"github.com/samber/do/v2"

	"github.com/animevault/animevault-server/internal/catalog"
	"github.com/animevault/animevault-server/internal/config"
	"github.com/animevault/animevault-server/internal/logger"
	"github.com/animevault/animevault-server/internal/retry"
	"github.com/animevault/animevault-server/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideRetryExecutor provides the rate-limit retry executor.
func ProvideRetryExecutor(i do.Injector) (*retry.Executor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	policy := retry.Policy{
		MaxRetries:   cfg.Catalog.MaxRetries,
		InitialDelay: cfg.Catalog.InitialDelay,
		MaxDelay:     cfg.Catalog.MaxDelay,
		Jitter:       cfg.Catalog.Jitter,
	}
	return retry.NewExecutor(policy, log.Component("retry")), nil
}

// ProvideCatalogClient provides the upstream catalog client.
func ProvideCatalogClient(i do.Injector) (*catalog.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	executor := do.MustInvoke[*retry.Executor](i)
	validator := do.MustInvoke[*validation.Validator](i)

	client := catalog.New(catalog.Options{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
		RPS:     cfg.Catalog.RequestsPerSecond,
		Burst:   cfg.Catalog.Burst,
	}, executor, validator, log.Component("catalog"))

	log.Info("Catalog client initialized",
		"base_url", cfg.Catalog.BaseURL,
		"max_retries", cfg.Catalog.MaxRetries,
	)

	return client, nil
}
