package repository

import (
	"context"
	"errors"

	"tienda/internal/domain/entity"
)

// ErrProductNotFound is returned when no product matches the given ID.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the keyed record store behind the product endpoints.
type ProductRepository interface {
	// List returns every product ordered by ID.
	List(ctx context.Context) ([]*entity.Product, error)

	// FindByID retrieves a single product or returns ErrProductNotFound.
	FindByID(ctx context.Context, id int64) (*entity.Product, error)

	// Create persists a new product and fills in its generated ID.
	Create(ctx context.Context, product *entity.Product) error

	// Update replaces the stored fields of product.ID and returns the stored row.
	Update(ctx context.Context, product *entity.Product) (*entity.Product, error)

	// Delete removes the product and returns the row as it was before deletion.
	Delete(ctx context.Context, id int64) (*entity.Product, error)
}
