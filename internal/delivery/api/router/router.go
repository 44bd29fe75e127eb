// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"tienda/internal/delivery/api/middleware"
	"tienda/internal/delivery/api/router/handler"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ProductHandler *handler.ProductHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		productHandler: params.ProductHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Reads are public; every mutating product route goes through the access guard.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	e.POST("/register", r.userHandler.Register)
	e.POST("/login", r.userHandler.Login)

	productsGroup := e.Group("/productos")
	{
		productsGroup.GET("", r.productHandler.List)
		productsGroup.GET("/:id", r.productHandler.Get)

		productsGroup.POST("", r.productHandler.Create, r.authMiddleware.RequireAuth)
		productsGroup.PUT("/:id", r.productHandler.Update, r.authMiddleware.RequireAuth)
		productsGroup.DELETE("/:id", r.productHandler.Delete, r.authMiddleware.RequireAuth)
	}
}
