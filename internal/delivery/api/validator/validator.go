// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"tienda/internal/errors"
)

// CustomValidator validates bound request structs.
type CustomValidator struct {
	validator *validator.Validate
}

// New builds a validator that reports fields by their json names.
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Describe turns validation failures into "field: rule" strings. Other errors
// yield their message.
func Describe(err error) []string {
	validationErrs, ok := errors.AsType[validator.ValidationErrors](err)
	if !ok {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		detail := fmt.Sprintf("%s: %s", fieldErr.Field(), fieldErr.Tag())
		if fieldErr.Param() != "" {
			detail += "=" + fieldErr.Param()
		}
		details = append(details, detail)
	}

	return details
}
