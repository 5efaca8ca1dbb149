package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibeprint/storefront/config"
	"github.com/vibeprint/storefront/internal/app/controller"
	"github.com/vibeprint/storefront/internal/app/service"
	"github.com/vibeprint/storefront/internal/middleware"
)

type Router struct {
	productController   *controller.ProductController
	cartController      *controller.CartController
	checkoutController  *controller.CheckoutController
	assistantController *controller.AssistantController
	adminController     *controller.AdminController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	assistantController *controller.AssistantController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:   productController,
		cartController:      cartController,
		checkoutController:  checkoutController,
		assistantController: assistantController,
		adminController:     adminController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "VibePrint API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		categories := v1.Group("/categories")
		{
			categories.GET("", r.productController.GetCategories)
			categories.GET("/:slug", r.productController.GetCategory)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetAllProducts)
			products.GET("/:id", r.productController.GetProductByID)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items", r.cartController.UpdateItem)
			cart.DELETE("/items", r.cartController.RemoveItem)
			cart.GET("/summary", r.cartController.GetSummary)
			cart.GET("/events", r.cartController.Events)
		}

		checkout := v1.Group("/checkout")
		{
			checkout.POST("", r.checkoutController.Submit)
			checkout.GET("/status", r.checkoutController.Status)
		}

		assistant := v1.Group("/assistant")
		{
			assistant.GET("/welcome", r.assistantController.Welcome)
			assistant.POST("/messages", r.assistantController.SendMessage)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/login", r.adminController.Login)

			protected := admin.Group("")
			protected.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(service.RoleAdmin))
			{
				protected.POST("/catalog/sync", r.adminController.SyncCatalog)
				protected.POST("/uploads/presigned-url", r.adminController.PresignUpload)
			}
		}
	}

	return router
}
