package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter wires the marking endpoints, CORS, request logging and the
// Prometheus scrape endpoint into a gin engine ready for Run.
func NewRouter(h *MarkHandler, log zerolog.Logger, metrics Metrics, metricsEnabled bool) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(log, metrics))

	corsConf := cors.DefaultConfig()
	corsConf.AllowAllOrigins = true
	corsConf.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConf.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConf.ExposeHeaders = []string{"Content-Disposition", "X-Synthmark-Marked", "X-Request-Id"}
	router.Use(cors.New(corsConf))

	api := router.Group("/api/v1")
	{
		api.GET("/health", h.HealthCheck)

		marks := api.Group("/marks")
		{
			marks.POST("/embed", h.EmbedMark)
			marks.POST("/detect", h.DetectMark)
		}
	}

	if metricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return router
}

// requestID tags every request so log lines from one upload can be
// correlated. An inbound X-Request-Id is kept, otherwise one is minted.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func requestLogger(log zerolog.Logger, metrics Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metrics.ObserveRequestDuration(path, elapsed)
		log.Info().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", elapsed).
			Msg("request")
	}
}
