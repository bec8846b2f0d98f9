package http

import (
	"errors"
	"strconv"

	"zest/internal/catalog/domain/repository"
	apperrors "zest/internal/shared/errors"
	"zest/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// CatalogHTTPHandler serves the public product catalog.
type CatalogHTTPHandler struct {
	repo repository.ProductRepository
	log  logger.Logger
}

// NewCatalogHTTPHandler creates a new catalog HTTP handler
func NewCatalogHTTPHandler(repo repository.ProductRepository, log logger.Logger) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{
		repo: repo,
		log:  log.WithComponent("catalog.http"),
	}
}

// SetupRoutes registers the catalog routes.
func (h *CatalogHTTPHandler) SetupRoutes(router fiber.Router) {
	router.Get("/", h.ListProducts)
	router.Get("/:id", h.GetProduct)
}

// ListProducts returns every catalog entry.
func (h *CatalogHTTPHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.repo.ListProducts(c.UserContext())
	if err != nil {
		h.log.Errorf("list products: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Service temporarily unavailable",
		})
	}

	return c.JSON(products)
}

// GetProduct returns one catalog entry by id.
func (h *CatalogHTTPHandler) GetProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product id",
		})
	}

	product, err := h.repo.GetProductByID(c.UserContext(), id)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		h.log.Errorf("get product: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Service temporarily unavailable",
		})
	}

	return c.JSON(product)
}
