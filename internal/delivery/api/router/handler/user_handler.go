package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"tienda/internal/delivery/api/response"
	deliverycontext "tienda/internal/delivery/context"
	"tienda/internal/errors"
	"tienda/internal/usecase"
)

const (
	msgRegistered = "Usuario registrado correctamente"
	msgLoggedIn   = "Inicio de sesión exitoso"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// UserHandler serves the register and login endpoints.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		uc:     params.UserUC,
		logger: params.Logger,
	}
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"nombre" form:"nombre" validate:"required,max=100"`
	Username string `json:"usuario" form:"usuario" validate:"required,max=100"`
	Password string `json:"clave" form:"clave" validate:"required"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"usuario" form:"usuario" validate:"required"`
	Password string `json:"clave" form:"clave" validate:"required"`
}

// Register creates the account. The response never echoes the password or its hash.
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Text(c, http.StatusCreated, msgRegistered)
}

// Login verifies the credentials and hands the token back in an HttpOnly,
// Secure, SameSite=Strict cookie. The cookie has no expiry of its own; the
// token inside expires.
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     deliverycontext.CookieToken,
		Value:    output.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	return response.Text(c, http.StatusOK, msgLoggedIn)
}
