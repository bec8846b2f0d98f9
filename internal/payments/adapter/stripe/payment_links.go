package stripe

import (
	"context"
	"fmt"

	paymentclient "zest/internal/payments/domain/client"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v79"
	stripeclient "github.com/stripe/stripe-go/v79/client"
)

// PaymentLinkClient creates hosted checkout links through the Stripe API.
type PaymentLinkClient struct {
	api *stripeclient.API
}

// NewPaymentLinkClient creates a Stripe-backed payment link client.
func NewPaymentLinkClient(apiKey string) *PaymentLinkClient {
	api := &stripeclient.API{}
	api.Init(apiKey, nil)
	return &PaymentLinkClient{api: api}
}

// CreateCheckoutLink registers the product and a price for it, then wraps
// them in a payment link and returns its URL. Each Stripe call carries a
// fresh idempotency key so a retried request cannot double-create objects.
func (c *PaymentLinkClient) CreateCheckoutLink(ctx context.Context, item paymentclient.LineItem) (string, error) {
	productParams := &stripe.ProductParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(item.Name),
	}
	productParams.SetIdempotencyKey(uuid.New().String())

	product, err := c.api.Products.New(productParams)
	if err != nil {
		return "", fmt.Errorf("create stripe product: %w", err)
	}

	priceParams := &stripe.PriceParams{
		Params:     stripe.Params{Context: ctx},
		Product:    stripe.String(product.ID),
		Currency:   stripe.String(item.Currency),
		UnitAmount: stripe.Int64(item.UnitAmount),
	}
	priceParams.SetIdempotencyKey(uuid.New().String())

	price, err := c.api.Prices.New(priceParams)
	if err != nil {
		return "", fmt.Errorf("create stripe price: %w", err)
	}

	linkParams := &stripe.PaymentLinkParams{
		Params: stripe.Params{Context: ctx},
		LineItems: []*stripe.PaymentLinkLineItemParams{{
			Price:    stripe.String(price.ID),
			Quantity: stripe.Int64(item.Quantity),
		}},
	}
	linkParams.SetIdempotencyKey(uuid.New().String())

	link, err := c.api.PaymentLinks.New(linkParams)
	if err != nil {
		return "", fmt.Errorf("create stripe payment link: %w", err)
	}

	return link.URL, nil
}

var _ paymentclient.PaymentLinks = (*PaymentLinkClient)(nil)
