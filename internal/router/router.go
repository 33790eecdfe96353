package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/handler/prometheus"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers are the route groups mounted under /api.
type Handlers struct {
	Patient    Handler
	Clinician  Handler
	Department Handler
	Report     Handler
	Health     Handler
	Metrics    *prometheus.Handler
}

type Router struct {
	engine   *gin.Engine
	handlers Handlers
}

func NewRouter(cfg *config.Config, m *metrics.Metrics, handlers Handlers) *Router {
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.Metrics(m),
		middleware.ErrorHandler(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: cfg.Server.RequestTimeout}),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.SizeLimit(middleware.DefaultSizeLimitConfig()),
	)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	engine.Use(middleware.CORS(corsConfig))

	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
			TTL:   cfg.RateLimit.TTL,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return &Router{
		engine:   engine,
		handlers: handlers,
	}
}

func (r *Router) Setup() {
	api := r.engine.Group("/api")

	for _, h := range []Handler{
		r.handlers.Health,
		r.handlers.Department,
		r.handlers.Clinician,
		r.handlers.Patient,
		r.handlers.Report,
	} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	if r.handlers.Metrics != nil {
		r.handlers.Metrics.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
