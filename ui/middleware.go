package ui

import (
	"net/http"
	"time"

	"coursedash/internal"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(requestLogger(s.logger))
	s.router.Use(gin.CustomRecovery(recoveryHandler(s.logger)))
	s.router.Use(corsMiddleware(s.config.CORSOrigins))
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// requestLogger logs one line per request through the application logger.
func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start).Round(time.Microsecond)
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.RequestURI(), status, latency)
		case status >= http.StatusBadRequest:
			logger.Warn("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.RequestURI(), status, latency)
		default:
			logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.RequestURI(), status, latency)
		}
	}
}

// recoveryHandler turns a panic into a generic 500; the process keeps serving.
func recoveryHandler(logger *internal.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered interface{}) {
		logger.Error("panic serving %s: %v", c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
			"code":  "INTERNAL_ERROR",
		})
	}
}
