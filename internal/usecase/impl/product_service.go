package impl

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	deliverycontext "tienda/internal/delivery/context"
	"tienda/internal/domain/entity"
	domainerrors "tienda/internal/domain/errors"
	"tienda/internal/domain/repository"
	"tienda/internal/errors"
	"tienda/internal/usecase"
	"tienda/internal/util"
)

// maxPrice is the first amount numeric(10,2) cannot hold.
const maxPrice = 1e8

type productService struct {
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *productService) List(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (srv *productService) Get(ctx context.Context, id int64) (*entity.Product, error) {
	if id <= 0 {
		return nil, domainerrors.ErrProductNotFound
	}

	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, srv.mapNotFound(err, "failed to find product")
	}

	return product, nil
}

func (srv *productService) Create(ctx context.Context, input *usecase.ProductInput) (*entity.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := newProductEntity(0, input)
	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Int64("productID", product.ID))

	return product, nil
}

func (srv *productService) Update(ctx context.Context, id int64, input *usecase.ProductInput) (*entity.Product, error) {
	if id <= 0 {
		return nil, domainerrors.ErrProductNotFound
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	updated, err := srv.productRepo.Update(ctx, newProductEntity(id, input))
	if err != nil {
		return nil, srv.mapNotFound(err, "failed to update product")
	}

	srv.log(ctx).Info("Product updated", slog.Int64("productID", id))

	return updated, nil
}

func (srv *productService) Delete(ctx context.Context, id int64) (*entity.Product, error) {
	if id <= 0 {
		return nil, domainerrors.ErrProductNotFound
	}

	deleted, err := srv.productRepo.Delete(ctx, id)
	if err != nil {
		return nil, srv.mapNotFound(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.Int64("productID", id))

	return deleted, nil
}

func (srv *productService) mapNotFound(err error, msg string) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return domainerrors.ErrProductNotFound
	}

	return errors.Wrap(err, msg)
}

func validateProductInput(input *usecase.ProductInput) error {
	switch {
	case input == nil || input.Name == "":
		return domainerrors.ErrValidationFailed.WrapMessage("nombre is required")
	case input.Stock < 0:
		return domainerrors.ErrValidationFailed.WrapMessage("stock must not be negative")
	case input.Price < 0:
		return domainerrors.ErrValidationFailed.WrapMessage("precio must not be negative")
	case util.RoundToCents(input.Price) >= maxPrice:
		return domainerrors.ErrValidationFailed.WrapMessage("precio is out of range")
	}

	return nil
}

func newProductEntity(id int64, input *usecase.ProductInput) *entity.Product {
	return &entity.Product{
		ID:       id,
		Name:     input.Name,
		Brand:    input.Brand,
		Category: input.Category,
		Stock:    input.Stock,
		Price:    util.RoundToCents(input.Price),
	}
}
