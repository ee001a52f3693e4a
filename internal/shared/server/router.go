package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"placement-ats/internal/evaluations"
	"placement-ats/internal/services/health"
	"placement-ats/internal/shared/config"
	"placement-ats/internal/shared/metrics"
	"placement-ats/internal/shared/server/middleware"
	"placement-ats/internal/shared/server/respond"
	"placement-ats/internal/students"
	"placement-ats/internal/uploads"
)

const (
	rateGroupScoring = "SCORING"
	rateGroupRead    = "READ"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config             config.Config
	EvaluationsHandler *evaluations.Handler
	StudentsHandler    *students.Handler
	UploadsHandler     *uploads.Handler
	Health             *health.Service
	Limiter            *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	perMinute := deps.Config.RateLimitPerMinute
	ats := api.Group("/ats")
	ats.Use(middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: rateGroupScoring,
		GroupFor:     rateGroupFor,
		Limiter:      deps.Limiter,
		Rules: map[string]middleware.RateLimitRule{
			rateGroupScoring: middleware.PerMinute(perMinute),
			rateGroupRead:    middleware.PerMinute(perMinute * 5),
		},
	}))

	if deps.EvaluationsHandler != nil {
		deps.EvaluationsHandler.RegisterRoutes(ats)
	}
	if deps.UploadsHandler != nil {
		deps.UploadsHandler.RegisterRoutes(ats)
	}
	if deps.StudentsHandler != nil {
		deps.StudentsHandler.RegisterRoutes(api.Group("/student"))
	}

	return r
}

func rateGroupFor(c *gin.Context) string {
	if c.Request.Method == http.MethodGet {
		return rateGroupRead
	}
	return rateGroupScoring
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
