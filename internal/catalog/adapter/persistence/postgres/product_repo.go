package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zest/internal/catalog/domain/model"
	"zest/internal/catalog/domain/repository"
	apperrors "zest/internal/shared/errors"
)

// DBTX is the subset of database/sql used by the repository.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresProductRepository reads the product catalog from Postgres.
type PostgresProductRepository struct {
	db DBTX
}

// NewPostgresProductRepository creates a repository over the given handle.
func NewPostgresProductRepository(db DBTX) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// ListProducts returns the full catalog.
func (r *PostgresProductRepository) ListProducts(ctx context.Context) ([]*model.Product, error) {
	query := `SELECT id, name, brand, category, price FROM products ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p := &model.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Price); err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// GetProductByID returns a single catalog entry.
func (r *PostgresProductRepository) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT id, name, brand, category, price FROM products WHERE id = $1`

	p := &model.Product{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("product not found")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

var _ repository.ProductRepository = (*PostgresProductRepository)(nil)
