package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/youruser/cardcomposer/internal/logger"
	"github.com/youruser/cardcomposer/internal/metrics"
)

// accessLog logs every request through logrus and feeds the request
// duration summary.
func accessLog() gin.HandlerFunc {
	log := logger.WithNamespace("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		metrics.HTTPTotalDurations.
			WithLabelValues(c.Request.Method, strconv.Itoa(status)).
			Observe(latency.Seconds())

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": latency,
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.Last().Error())
		}
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
	}
}
