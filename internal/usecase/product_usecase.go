package usecase

import (
	"context"

	"tienda/internal/domain/entity"
)

// ProductInput carries the writable product fields. Update replaces all of them.
type ProductInput struct {
	Name     string
	Brand    string
	Category string
	Stock    int
	Price    float64
}

// ProductUsecase defines the catalog operations behind the /productos endpoints.
type ProductUsecase interface {
	List(ctx context.Context) ([]*entity.Product, error)
	Get(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, input *ProductInput) (*entity.Product, error)
	Update(ctx context.Context, id int64, input *ProductInput) (*entity.Product, error)
	Delete(ctx context.Context, id int64) (*entity.Product, error)
}
