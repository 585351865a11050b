package router

import (
	"time"

	"github.com/platewatch/api/config"
	"github.com/platewatch/api/internal/handler"
	"github.com/platewatch/api/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler   *handler.AuthHandler
	carHandler    *handler.CarHandler
	reportHandler *handler.ReportHandler
	userHandler   *handler.UserHandler
	healthHandler *handler.HealthHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	car *handler.CarHandler,
	report *handler.ReportHandler,
	user *handler.UserHandler,
	health *handler.HealthHandler,

	jwtMw *middleware.JWTMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		carHandler:    car,
		reportHandler: report,
		userHandler:   user,
		healthHandler: health,

		jwtMw:  jwtMw,
		Config: cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)
		api.GET("/health/live", r.healthHandler.BasicHealth)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

			r.authRoutes(v1)
			r.carRoutes(v1)
			r.reportRoutes(v1)
			r.userRoutes(v1)
		}
	}

	return router
}
