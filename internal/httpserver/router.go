package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	DB             *gorm.DB
	JWTSecret      []byte
	AuthHandler    *AuthHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	CatalogHandler *CatalogHandler
	ShopHandler    *ShopHandler
	SearchHandler  *SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/register/confirm", d.AuthHandler.ConfirmRegistration)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	v1.POST("/reset-password", d.AuthHandler.ResetPassword)

	v1.GET("/products", d.CatalogHandler.ListProducts)
	v1.GET("/products/:id", d.CatalogHandler.GetProduct)
	v1.GET("/categories", d.CatalogHandler.ListCategories)
	v1.GET("/shops/:slug", d.ShopHandler.GetShopBySlug)
	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	auth := v1.Group("", RequireAuth(d.JWTSecret))

	auth.GET("/cart", d.CartHandler.GetCart)
	auth.POST("/cart", d.CartHandler.AddToCart)
	auth.PATCH("/cart/:id", d.CartHandler.SetQuantity)
	auth.DELETE("/cart/:id", d.CartHandler.RemoveFromCart)

	auth.POST("/checkout", d.OrderHandler.Checkout)
	auth.GET("/orders", d.OrderHandler.ListOrders)
	auth.GET("/orders/:id", d.OrderHandler.GetOrder)
	auth.POST("/orders/:id/confirm-payment", d.OrderHandler.ConfirmPayment)
	auth.POST("/orders/:id/cancel", d.OrderHandler.Cancel)
	auth.POST("/orders/:id/status", d.OrderHandler.AdvanceStatus)

	seller := auth.Group("/seller")
	seller.GET("/dashboard", d.CatalogHandler.SellerDashboard)
	seller.GET("/products", d.CatalogHandler.ListSellerProducts)
	seller.POST("/products", d.CatalogHandler.CreateProduct)
	seller.PATCH("/products/:id", d.CatalogHandler.UpdateProduct)
	seller.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)
	seller.POST("/categories", d.CatalogHandler.CreateCategory)
	seller.POST("/shop", d.ShopHandler.CreateShop)
	seller.GET("/shop", d.ShopHandler.GetMyShop)
}
