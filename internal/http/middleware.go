// README: Cross-cutting gin middleware: request logging and metrics.
package http

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"washride/internal/observability"
)

// RequestLogger emits one structured line per request and feeds the
// HTTP metrics. The route template is used as the path label so
// cardinality stays bounded.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()

		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())

		log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}
