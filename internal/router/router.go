package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sportaccessories/storefront/config"
	"github.com/sportaccessories/storefront/internal/app/controller"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	productController *controller.ProductController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	uploadController  *controller.UploadController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		productController: productController,
		cartController:    cartController,
		orderController:   orderController,
		uploadController:  uploadController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigin))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Server is running",
		})
	})

	// only the local driver writes files this process can serve
	if r.config.Storage.Driver == "" || r.config.Storage.Driver == "local" {
		router.Static("/uploads", r.config.Storage.UploadDir)
	}

	authenticated := r.authMiddleware.Authenticate()
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", r.authController.Register)
			users.POST("/login", r.authController.Login)
			users.POST("/logout", authenticated, r.authController.Logout)
			users.GET("/profile", authenticated, r.authController.GetProfile)
			users.PUT("/profile", authenticated, r.authController.UpdateProfile)
			users.PUT("/change-password", authenticated, r.authController.ChangePassword)
		}

		products := api.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("", authenticated, adminOnly, r.productController.CreateProduct)
			products.PUT("/:id", authenticated, adminOnly, r.productController.UpdateProduct)
			products.DELETE("/:id", authenticated, adminOnly, r.productController.DeleteProduct)
			products.POST("/:id/image", authenticated, adminOnly, r.uploadController.UploadProductImage)
		}

		cart := api.Group("/cart", authenticated)
		{
			cart.GET("", r.cartController.GetCart)
			cart.PUT("/update", r.cartController.UpdateItem)
			cart.DELETE("/remove/:productId", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := api.Group("/orders", authenticated)
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("", r.orderController.CreateOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)

			orders.PUT("/:id/status", adminOnly, r.orderController.UpdateStatus)
			orders.PUT("/:id/payment", adminOnly, r.orderController.UpdatePaymentStatus)
		}
	}

	return router
}

// corsMiddleware admits exactly one browser origin, with credentials
func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{allowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
