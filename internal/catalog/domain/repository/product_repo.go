package repository

import (
	"context"

	"zest/internal/catalog/domain/model"
)

// ProductRepository defines read access to the product catalog.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProductByID(ctx context.Context, id int64) (*model.Product, error)
}
