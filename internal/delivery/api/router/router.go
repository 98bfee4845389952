// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"ferremas/internal/delivery/api/middleware"
	"ferremas/internal/delivery/api/router/handler"
	"ferremas/internal/domain/constants"
	"ferremas/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler     *handler.UserHandler
	CatalogHandler  *handler.CatalogHandler
	CartHandler     *handler.CartHandler
	CheckoutHandler *handler.CheckoutHandler
	CurrencyHandler *handler.CurrencyHandler
	ContactHandler  *handler.ContactHandler
	StoreHandler    *handler.StoreHandler
	UploadHandler   *handler.UploadHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler     *handler.UserHandler
	catalogHandler  *handler.CatalogHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	currencyHandler *handler.CurrencyHandler
	contactHandler  *handler.ContactHandler
	storeHandler    *handler.StoreHandler
	uploadHandler   *handler.UploadHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:     params.UserHandler,
		catalogHandler:  params.CatalogHandler,
		cartHandler:     params.CartHandler,
		checkoutHandler: params.CheckoutHandler,
		currencyHandler: params.CurrencyHandler,
		contactHandler:  params.ContactHandler,
		storeHandler:    params.StoreHandler,
		uploadHandler:   params.UploadHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	authenticated := r.authMiddleware.Authenticate
	admin := r.authMiddleware.RequireRole(entity.RoleAdmin)

	e.GET("/health", handler.HealthCheck)
	e.GET("/uploads/*", r.uploadHandler.Serve)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
		authGroup.POST("/google", r.userHandler.GoogleLogin)
		authGroup.GET("/google/mock", r.userHandler.GoogleMockLogin)
	}

	// Webpay Plus flow
	e.POST("/iniciar-pago", r.checkoutHandler.StartPayment, authenticated)
	e.GET(constants.WebpayReturnPath, r.checkoutHandler.WebpayReturn)
	e.POST(constants.WebpayReturnPath, r.checkoutHandler.WebpayReturn)
	e.GET(constants.PaymentReceiptPath, r.checkoutHandler.PaymentReceipt, r.authMiddleware.OptionalAuthenticate)

	api := e.Group("/api")
	api.GET("/me", r.userHandler.Me, authenticated)
	api.GET("/home", r.catalogHandler.Home)

	// Catalog: reads are public, writes need the admin role
	{
		api.GET("/products", r.catalogHandler.ListProducts)
		api.GET("/products/:id", r.catalogHandler.GetProduct)
		api.GET("/products/:id/price-history", r.catalogHandler.PriceHistory)
		api.POST("/products", r.catalogHandler.CreateProduct, authenticated, admin)
		api.PUT("/products/:id", r.catalogHandler.UpdateProduct, authenticated, admin)
		api.DELETE("/products/:id", r.catalogHandler.DeleteProduct, authenticated, admin)

		api.GET("/categories", r.catalogHandler.ListCategories)
		api.GET("/categories/:id", r.catalogHandler.GetCategory)
		api.GET("/categories/:id/subcategories", r.catalogHandler.ListSubCategories)
		api.POST("/categories", r.catalogHandler.CreateCategory, authenticated, admin)
		api.POST("/categories/:id/subcategories", r.catalogHandler.CreateSubCategory, authenticated, admin)
	}

	cartGroup := api.Group("/cart", authenticated)
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.POST("/add", r.cartHandler.AddItem)
		cartGroup.PUT("/update/:id", r.cartHandler.UpdateItem)
		cartGroup.DELETE("/remove/:id", r.cartHandler.RemoveItem)
		cartGroup.DELETE("/clear", r.cartHandler.Clear)
	}

	ordersGroup := api.Group("/orders", authenticated)
	{
		ordersGroup.GET("", r.checkoutHandler.ListOrders)
		ordersGroup.GET("/:id", r.checkoutHandler.GetOrder)
		ordersGroup.GET("/:id/pickup-qr", r.checkoutHandler.PickupQR)
		ordersGroup.POST("/:id/refund", r.checkoutHandler.RefundOrder, admin)
	}

	api.GET("/payments/:token", r.checkoutHandler.GetPayment)
	api.GET("/payments/:token/status", r.checkoutHandler.TransactionStatus, authenticated, admin)

	// Currency converter
	api.POST("/convert", r.currencyHandler.Convert)
	api.GET("/currencies", r.currencyHandler.Currencies)
	api.GET("/exchange-rates/:code", r.currencyHandler.ExchangeRate)

	api.POST("/contact", r.contactHandler.Send)
	api.GET("/stores", r.storeHandler.ListStores)
}
