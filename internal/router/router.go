package router

import (
	"context"
	"net/http"
	"time"

	"order-admin/internal/handlers"
	"order-admin/internal/service"

	"github.com/gin-contrib/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether backing stores are reachable.
type HealthCheck func(ctx context.Context) error

func Router(products service.ProductService, orders service.OrderService, health HealthCheck, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				log.Error("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ph := handlers.NewProductHandler(products, log)
	oh := handlers.NewOrderHandler(orders, log)

	api := r.Group("/api")
	{
		p := api.Group("/products")
		p.POST("", ph.Create)
		p.GET("", ph.List)
		p.GET("/:id", ph.Get)
		p.PATCH("/:id", ph.Update)
		p.DELETE("/:id", ph.Delete)
		p.GET("/:id/inventory-logs", ph.InventoryLogs)

		o := api.Group("/orders")
		o.POST("", oh.Create)
		o.GET("", oh.List)
		o.GET("/:id", oh.Get)
		o.POST("/:id/items", oh.AddItem)
		o.PATCH("/:id/confirm", oh.Confirm)
		o.PATCH("/:id/cancel", oh.Cancel)
		o.DELETE("/:id", oh.Delete)
		o.GET("/:id/inventory-logs", oh.InventoryLogs)
	}

	return r
}
