package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tienda/internal/domain/entity"
	domainerrors "tienda/internal/domain/errors"
	"tienda/internal/domain/repository"
	"tienda/internal/errors"
	"tienda/internal/infra/persistence/model"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (repo *productRepository) List(ctx context.Context) ([]*entity.Product, error) {
	var productMs []*model.ProductModel

	if err := repo.db.WithContext(ctx).Order("id").Find(&productMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productMs))
	for _, productM := range productMs {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

func (repo *productRepository) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).Take(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	productM.ID = 0

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		return mapProductWriteError(err, "failed to create product")
	}

	product.ID = productM.ID

	return nil
}

// Update writes every column, zero values included, and reads the stored row
// back through RETURNING.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	productM := &model.ProductModel{ID: product.ID}

	result := repo.db.WithContext(ctx).
		Model(productM).
		Clauses(clause.Returning{}).
		Updates(map[string]any{
			"nombre":    product.Name,
			"marca":     product.Brand,
			"categoria": product.Category,
			"stock":     product.Stock,
			"precio":    product.Price,
		})
	if result.Error != nil {
		return nil, mapProductWriteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrProductNotFound
	}

	return toProductDomain(productM), nil
}

func (repo *productRepository) Delete(ctx context.Context, id int64) (*entity.Product, error) {
	var productM model.ProductModel

	result := repo.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&productM)
	if result.Error != nil {
		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrProductNotFound
	}

	return toProductDomain(&productM), nil
}

func mapProductWriteError(err error, details string) error {
	if isNotNullConstraintViolation(err) {
		return domainerrors.ErrValidationFailed.WrapMessage("missing required product information")
	}
	if isCheckConstraintViolation(err) || isValueOutOfRange(err) {
		return domainerrors.ErrValidationFailed.WrapMessage("product values out of range")
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

// --- Mapper Functions ---

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:       data.ID,
		Name:     data.Name,
		Brand:    data.Brand,
		Category: data.Category,
		Stock:    data.Stock,
		Price:    data.Price,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:       data.ID,
		Name:     data.Name,
		Brand:    data.Brand,
		Category: data.Category,
		Stock:    data.Stock,
		Price:    data.Price,
	}
}
