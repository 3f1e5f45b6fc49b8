package router

import (
	"html/template"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/handler"
	"github.com/jwalitptl/passpay-web/internal/middleware"
	"github.com/jwalitptl/passpay-web/internal/session"
	"github.com/jwalitptl/passpay-web/pkg/metrics"
)

type Config struct {
	Mode     string
	Timeout  time.Duration
	Cookie   middleware.CookieConfig
	Security middleware.SecurityConfig
	Size     middleware.SizeLimitConfig
	Cache    middleware.CacheConfig
}

// Handlers are the screens, in registration order. Admin screens are
// mounted under /admin behind the admin role guard.
type Handlers struct {
	Health    handler.Handler
	Auth      handler.Handler
	Dashboard handler.Handler
	Profile   handler.Handler
	Admin     []handler.Handler
}

type Router struct {
	engine  *gin.Engine
	metrics *metrics.Metrics
}

func NewRouter(cfg Config, sessions *session.Manager, tmpl *template.Template, m *metrics.Metrics, h Handlers) *Router {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)

	r := &Router{engine: engine, metrics: m}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: cfg.Timeout}),
		middleware.SecurityHeaders(cfg.Security),
		middleware.Cache(cfg.Cache),
		middleware.SizeLimit(cfg.Size),
	)

	root := &engine.RouterGroup
	if h.Health != nil {
		h.Health.RegisterRoutes(root)
	}

	// Everything past health checks runs inside a session.
	app := engine.Group("", middleware.Session(sessions, cfg.Cookie))
	for _, s := range []handler.Handler{h.Auth, h.Dashboard, h.Profile} {
		if s != nil {
			s.RegisterRoutes(app)
		}
	}
	admin := app.Group("/admin", middleware.Guard(middleware.AdminRoles...))
	for _, s := range h.Admin {
		s.RegisterRoutes(admin)
	}

	engine.NoRoute(middleware.Session(sessions, cfg.Cookie), handler.NotFound)
	return r
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Routes lists the registered method and path pairs, sorted by path.
func (r *Router) Routes() []gin.RouteInfo {
	routes := r.engine.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	return routes
}
