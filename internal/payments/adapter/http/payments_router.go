package http

import (
	paymentclient "zest/internal/payments/domain/client"
	"zest/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// demoItem matches the storefront's single demo checkout article.
var demoItem = paymentclient.LineItem{
	Name:       "T-Shirt",
	UnitAmount: 1000,
	Currency:   "usd",
	Quantity:   3,
}

// PaymentsHTTPHandler exposes the checkout glue over the payment provider.
type PaymentsHTTPHandler struct {
	links paymentclient.PaymentLinks
	log   logger.Logger
}

// NewPaymentsHTTPHandler creates a new payments HTTP handler
func NewPaymentsHTTPHandler(links paymentclient.PaymentLinks, log logger.Logger) *PaymentsHTTPHandler {
	return &PaymentsHTTPHandler{
		links: links,
		log:   log.WithComponent("payments.http"),
	}
}

// SetupRoutes registers the checkout route. The caller wraps it with the
// session validator; only authenticated users reach checkout.
func (h *PaymentsHTTPHandler) SetupRoutes(router fiber.Router) {
	router.Get("/", h.Checkout)
}

// Checkout creates a hosted payment link for the demo article and returns
// its URL.
func (h *PaymentsHTTPHandler) Checkout(c *fiber.Ctx) error {
	url, err := h.links.CreateCheckoutLink(c.UserContext(), demoItem)
	if err != nil {
		h.log.Errorf("create checkout link: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Payment provider unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"url": url,
	})
}
