package catalog

import (
	"database/sql"

	cataloghttp "zest/internal/catalog/adapter/http"
	"zest/internal/catalog/adapter/persistence/postgres"
	"zest/internal/catalog/domain/repository"
	"zest/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// CatalogModule bundles the product-listing glue.
type CatalogModule struct {
	repository repository.ProductRepository
	handler    *cataloghttp.CatalogHTTPHandler
}

// NewCatalogModule creates a new catalog module instance
func NewCatalogModule(db *sql.DB, log logger.Logger) *CatalogModule {
	repo := postgres.NewPostgresProductRepository(db)
	handler := cataloghttp.NewCatalogHTTPHandler(repo, log)

	return &CatalogModule{
		repository: repo,
		handler:    handler,
	}
}

// RegisterRoutes registers catalog routes with the provided router
func (cm *CatalogModule) RegisterRoutes(router fiber.Router) {
	cm.handler.SetupRoutes(router.Group("/products"))
}
