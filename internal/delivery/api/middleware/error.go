// Package middleware holds the API-specific echo middleware: the access guard
// and the central error handler.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"tienda/internal/delivery/api/response"
	deliverycontext "tienda/internal/delivery/context"
	domainerrors "tienda/internal/domain/errors"
	"tienda/internal/errors"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.logServerError(c, err, appErr.Details())
		}

		_ = response.FromAppError(c, appErr)

		return
	}

	// Router misses, body limit and method mismatches arrive as echo errors.
	if httpErr, ok := errors.AsType[*echo.HTTPError](err); ok {
		if httpErr.Code >= http.StatusInternalServerError {
			m.logServerError(c, err, "")
			_ = response.InternalServerError(c, domainerrors.ErrInternalError.ErrorCode(), domainerrors.ErrInternalError.Message())

			return
		}

		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)

		return
	}

	// Anything unmapped is a storage or programming fault: log the chain, answer generically.
	m.logServerError(c, err, "")
	_ = response.InternalServerError(c, domainerrors.ErrInternalError.ErrorCode(), domainerrors.ErrInternalError.Message())
}

func (m *ErrorMiddleware) logServerError(c echo.Context, err error, details string) {
	ctx := c.Request().Context()

	attrs := []slog.Attr{
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	}
	if details != "" {
		attrs = append(attrs, slog.String("details", details))
	}

	deliverycontext.GetLoggerOrDefault(ctx, m.logger).LogAttrs(ctx, slog.LevelError, "Request failed", attrs...)
}
