package delivery

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries everything the router needs beyond the handlers.
type RouterConfig struct {
	JWTSecret    []byte
	AllowOrigins []string
}

func NewRouter(cfg RouterConfig, auth *AuthHandler, covers *CoverHandler, orders *OrderHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/covers", covers.List)
		api.GET("/covers/:id", covers.Get)
		api.POST("/orders", orders.Place)
		api.POST("/admin/login", auth.Login)
	}

	admin := api.Group("/admin", RequireAdmin(cfg.JWTSecret))
	{
		admin.POST("/covers", covers.Create)
		admin.PUT("/covers/:id", covers.Update)
		admin.DELETE("/covers/:id", covers.Delete)

		admin.GET("/orders", orders.List)
		admin.GET("/orders/:id", orders.Get)
		admin.PATCH("/orders/:id/status", orders.UpdateStatus)
		admin.DELETE("/orders/:id", orders.Delete)
		admin.POST("/orders/:id/consignment", orders.BookConsignment)
		admin.GET("/orders/:id/consignment", orders.TrackConsignment)

		admin.GET("/summaries/:phone", orders.Summary)
		admin.GET("/courier/balance", orders.CourierBalance)
		admin.GET("/courier/history/:phone", orders.CourierHistory)
	}

	return r
}
