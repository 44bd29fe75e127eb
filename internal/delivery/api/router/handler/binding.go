package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"tienda/internal/delivery/api/validator"
	domainerrors "tienda/internal/domain/errors"
	"tienda/internal/errors"
)

// bindAndValidate decodes a JSON or urlencoded body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid request body")
	}

	if err := c.Validate(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(strings.Join(validator.Describe(err), "; "))
	}

	return nil
}

// parseID reads the :id path parameter. A non-numeric id cannot match any
// record, so it is reported as not found.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.WithStack(domainerrors.ErrProductNotFound)
	}

	return id, nil
}
