package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/middleware"
	"github.com/Patilgrv/student-management-api/internal/pkg/config"
	"github.com/Patilgrv/student-management-api/internal/routes"
)

// SetupRouter configures the Gin router with the middleware chain and all
// routes.
func SetupRouter(dbPool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.Origin))
	r.Use(middleware.SecurityMiddleware())
	r.Use(middleware.MetricsMiddleware())

	limiter := middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, logger)
	r.Use(limiter.Middleware())

	routes.Setup(r, dbPool, cfg, logger)

	return r
}
