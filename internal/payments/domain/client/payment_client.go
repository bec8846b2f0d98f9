package client

import "context"

// LineItem describes a purchasable unit for a checkout link.
type LineItem struct {
	Name       string
	UnitAmount int64 // minor currency units
	Currency   string
	Quantity   int64
}

// PaymentLinks is the narrow interface over the external payment provider:
// given a line item, produce a hosted checkout URL.
type PaymentLinks interface {
	CreateCheckoutLink(ctx context.Context, item LineItem) (string, error)
}
