package payments

import (
	paymentshttp "zest/internal/payments/adapter/http"
	"zest/internal/payments/adapter/stripe"
	"zest/internal/payments/domain/client"
	"zest/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// PaymentsModule bundles the payment-link glue.
type PaymentsModule struct {
	client  client.PaymentLinks
	handler *paymentshttp.PaymentsHTTPHandler
}

// NewPaymentsModule creates a new payments module instance
func NewPaymentsModule(stripeAPIKey string, log logger.Logger) *PaymentsModule {
	linkClient := stripe.NewPaymentLinkClient(stripeAPIKey)
	handler := paymentshttp.NewPaymentsHTTPHandler(linkClient, log)

	return &PaymentsModule{
		client:  linkClient,
		handler: handler,
	}
}

// RegisterRoutes registers the checkout route behind the given session
// validator middleware.
func (pm *PaymentsModule) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	pm.handler.SetupRoutes(router.Group("/payments", protect))
}
