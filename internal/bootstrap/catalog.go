package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/cosmetics/internal/catalog"
	"github.com/osse101/cosmetics/internal/config"
	"github.com/osse101/cosmetics/internal/domain"
)

// LoadCatalog reads the catalog file named in configuration. Validation
// findings are logged as warnings and never block startup.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.NewLoader().Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}

	for _, warning := range cat.Validate() {
		slog.Warn(LogMsgCatalogWarning, "path", cfg.CatalogPath, "warning", warning)
	}

	slog.Info(LogMsgCatalogLoaded,
		"path", cfg.CatalogPath,
		"avatars", len(cat.Items(domain.CategoryAvatar)),
		"frames", len(cat.Items(domain.CategoryFrame)))

	return cat, nil
}
