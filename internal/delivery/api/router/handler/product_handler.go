package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"tienda/internal/delivery/api/response"
	"tienda/internal/domain/entity"
	"tienda/internal/errors"
	"tienda/internal/usecase"
)

const msgProductDeleted = "Producto eliminado"

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	ProductUC usecase.ProductUsecase
	Logger    *slog.Logger
}

// ProductHandler serves the /productos endpoints.
type ProductHandler struct {
	uc     usecase.ProductUsecase
	logger *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler
func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		uc:     params.ProductUC,
		logger: params.Logger,
	}
}

// ProductRequest carries the writable product fields.
type ProductRequest struct {
	Name     string  `json:"nombre" form:"nombre" validate:"required,max=255"`
	Brand    string  `json:"marca" form:"marca" validate:"max=255"`
	Category string  `json:"categoria" form:"categoria" validate:"max=255"`
	Stock    int     `json:"stock" form:"stock" validate:"gte=0,lte=2147483647"`
	Price    float64 `json:"precio" form:"precio" validate:"gte=0"`
}

// ProductResponse is the JSON shape of a stored product.
type ProductResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"nombre"`
	Brand    string  `json:"marca"`
	Category string  `json:"categoria"`
	Stock    int     `json:"stock"`
	Price    float64 `json:"precio"`
}

// DeleteProductResponse reports the removed record.
type DeleteProductResponse struct {
	Message string           `json:"message"`
	Product *ProductResponse `json:"producto"`
}

// List returns every product; an empty catalog is an empty array.
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.uc.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]*ProductResponse, 0, len(products))
	for _, product := range products {
		out = append(out, toProductResponse(product))
	}

	return response.Success(c, http.StatusOK, out)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductResponse(product))
}

// Update replaces every writable field of the product.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.uc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.uc.Delete(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &DeleteProductResponse{
		Message: msgProductDeleted,
		Product: toProductResponse(product),
	})
}

func (req *ProductRequest) toInput() *usecase.ProductInput {
	return &usecase.ProductInput{
		Name:     req.Name,
		Brand:    req.Brand,
		Category: req.Category,
		Stock:    req.Stock,
		Price:    req.Price,
	}
}

func toProductResponse(product *entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:       product.ID,
		Name:     product.Name,
		Brand:    product.Brand,
		Category: product.Category,
		Stock:    product.Stock,
		Price:    product.Price,
	}
}
