package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"tourbook/internal/infra/config"
	"tourbook/internal/infra/obs"
)

type ReviewsHTTP interface {
	ListByTour(c *gin.Context)
	Mine(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type BookingsHTTP interface {
	List(c *gin.Context)
	PendingReview(c *gin.Context)
	StatusForTour(c *gin.Context)
	Checkout(c *gin.Context)
	Refresh(c *gin.Context)
}

type Handlers struct {
	Reviews  ReviewsHTTP
	Bookings BookingsHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Bookings != nil {
		api.GET("/bookings", h.Bookings.List)
		api.GET("/bookings/pending-review", h.Bookings.PendingReview)
		api.GET("/tours/:id/status", h.Bookings.StatusForTour)
		api.POST("/tours/:id/checkout-session", h.Bookings.Checkout)
		api.POST("/refresh", h.Bookings.Refresh)
	}
	if h.Reviews != nil {
		api.GET("/tours/:id/reviews", h.Reviews.ListByTour)
		api.POST("/tours/:id/reviews", h.Reviews.Create)
		api.GET("/reviews/my-reviews", h.Reviews.Mine)
		api.PATCH("/reviews/:id", h.Reviews.Update)
		api.DELETE("/reviews/:id", h.Reviews.Delete)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
