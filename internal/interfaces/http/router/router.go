package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	_ "github.com/marketplace/backend/docs"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by handlers that own a set of API routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts handlers under /api/<version> behind the API-only middleware
type Router struct {
	engine     *gin.Engine
	version    string
	chain      []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion replaces the default "v1" path segment
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.version = version }
}

// WithMiddleware appends handlers that run for API routes only. Order
// matters: the owner must be resolved before anything that reads it.
func WithMiddleware(handlers ...gin.HandlerFunc) RouterOption {
	return func(r *Router) { r.chain = append(r.chain, handlers...) }
}

// NewRouter returns a Router for engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registrar. Unknown paths and methods answer with the
// JSON error envelope instead of gin's plain text.
func (r *Router) Setup() {
	api := r.engine.Group("/api/"+r.version, r.chain...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}

	r.engine.HandleMethodNotAllowed = true
	r.engine.NoRoute(routeError(http.StatusNotFound, dto.ErrCodeNotFound, "Route not found"))
	r.engine.NoMethod(routeError(http.StatusMethodNotAllowed, dto.ErrCodeBadRequest, "Method not allowed"))
}

func routeError(status int, code, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
	}
}

// EngineConfig configures the process-wide gin engine
type EngineConfig struct {
	ServiceName    string
	Release        bool
	TrustedProxies []string
	Tracing        bool
	Swagger        bool
	Logger         *zap.Logger
	// Meter enables HTTP request metrics when set
	Meter metric.Meter
}

// NewEngine builds the engine with the middleware every route shares:
// panic recovery and request id, then tracing and metrics when configured,
// then the access log. API routes are mounted afterwards with a Router.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	chain := []gin.HandlerFunc{logger.Recovery(log), middleware.RequestID()}
	if cfg.Tracing {
		chain = append(chain, middleware.Tracing(cfg.ServiceName), middleware.TracingAttributes(), middleware.SpanErrorMarker())
	}
	if cfg.Meter != nil {
		requests, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, err
		}
		chain = append(chain, requests)
	}
	chain = append(chain, logger.AccessLog(log, "/health"))
	engine.Use(chain...)

	if cfg.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	middleware.SetupValidator()
	return engine, nil
}
