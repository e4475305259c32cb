package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"ipinsight/internal/analytics"
	"ipinsight/internal/metrics"

	"github.com/gin-gonic/gin"
)

func CORSMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// AnalyticsMiddleware records one Record per completed request into the
// rolling store and bumps the per-endpoint request counter.
func AnalyticsMiddleware(store *analytics.Store, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.GetHeader("X-Request-Id"))
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-Id", requestID)
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		if m != nil {
			m.IncRequest(endpoint)
		}
		if store == nil {
			return
		}

		ip := c.Param("ip")
		if ip == "" || ip == "self" {
			ip = c.ClientIP()
		}
		store.Add(analytics.Record{
			Timestamp:        time.Now().Unix(),
			IP:               ip,
			Endpoint:         endpoint,
			Status:           c.Writer.Status(),
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			RequestID:        requestID,
			Country:          c.GetHeader("X-Edge-Country"),
			Datacenter:       c.GetHeader("X-Edge-Colo"),
			UserAgent:        c.Request.UserAgent(),
		})
	}
}

func generateRequestID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().Format("20060102150405.000000000")))
	}
	return hex.EncodeToString(buf)
}
