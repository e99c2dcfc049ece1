package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mbacelar/rebanho/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(gtaHandler *handlers.GTAHandler, herdHandler *handlers.HerdHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/gta/validate", gtaHandler.Validate)
	r.POST("/gta/format", gtaHandler.Format)
	r.POST("/gta/validity", gtaHandler.Validity)
	r.GET("/gta/parse", gtaHandler.Parse)
	r.GET("/gta/required", gtaHandler.Required)
	r.GET("/gta/rules/:state", gtaHandler.Rule)

	r.GET("/properties/:id/balances", herdHandler.Balances)
	r.POST("/properties/:id/recalculate", herdHandler.RecalculateAgeGroups)
	r.POST("/migrations/run", herdHandler.RunMigrations)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
