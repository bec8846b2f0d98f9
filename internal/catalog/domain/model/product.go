package model

// Product is a catalog entry. Price is kept as the display string the
// storefront renders; money math happens in the payment provider.
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
	Price    string `json:"price"`
}
