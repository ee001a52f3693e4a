package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"placement-ats/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	EvaluationIDKey = "evaluationId"
	CandidateIDKey  = "candidateId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if v := c.GetString(EvaluationIDKey); v != "" {
			fields["evaluation_id"] = v
		}
		if v := c.GetString(CandidateIDKey); v != "" {
			fields["candidate_id"] = v
		}
		telemetry.Info("request.complete", fields)
	}
}
