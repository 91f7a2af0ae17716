// Package api assembles the REST backend: middleware chain, one CRUD route
// group per module and the lookup, catalogue, health and metrics endpoints.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/metabooks/erp/internal/application/masterdata"
	"github.com/metabooks/erp/internal/application/records"
	"github.com/metabooks/erp/internal/application/registry"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/metabooks/erp/internal/infrastructure/config"
	"github.com/metabooks/erp/internal/infrastructure/logger"
	"github.com/metabooks/erp/internal/infrastructure/metrics"
	"github.com/metabooks/erp/internal/infrastructure/persistence"
	"github.com/metabooks/erp/internal/interfaces/http/handler"
	"github.com/metabooks/erp/internal/interfaces/http/middleware"
	"github.com/metabooks/erp/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// Config holds the HTTP settings of the backend
type Config struct {
	HTTP       config.HTTPConfig
	Tracing    middleware.TracingConfig
	APIVersion string
}

// Deps are the collaborators the routes are built on
type Deps struct {
	DB      *persistence.Database
	Lookups *masterdata.LookupService
	// Metrics is optional; without it /metrics is not served
	Metrics *metrics.Registry
	Logger  *zap.Logger
}

// API is the assembled backend
type API struct {
	engine  *gin.Engine
	router  *router.Router
	limiter *middleware.RateLimiter
	deps    Deps
	linked  []linkable
	modules map[string]*router.DomainGroup
}

// linkable matches the parameter type of masterdata.Link
type linkable = interface {
	masterdata.Dependent
	AddDependent(masterdata.Dependent)
}

// New builds the engine with every route mounted
func New(cfg Config, deps Deps) *API {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v1"
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			deps.Logger.Warn("Ignoring invalid trusted proxies", zap.Error(err))
		}
	}

	a := &API{
		engine:  engine,
		router:  router.NewRouter(engine, router.WithAPIVersion(cfg.APIVersion)),
		deps:    deps,
		modules: make(map[string]*router.DomainGroup, len(registry.Modules)),
	}
	a.useMiddleware(cfg)
	a.mountRecords()
	a.mountSystem()
	return a
}

// Middleware order:
// 1. RequestID - Generate/propagate request ID
// 2. Recovery - Catch panics
// 3. Logger - Log requests
// 4. Tracing - Server span, then request attributes and error status
// 5. Metrics - Count and time requests
// 6. CORS - Handle cross-origin requests
// 7. BodyLimit - Limit request body size
// 8. RateLimit - Apply rate limiting (if enabled)
func (a *API) useMiddleware(cfg Config) {
	log := a.deps.Logger
	a.engine.Use(middleware.RequestID())
	a.engine.Use(logger.Recovery(log))
	a.engine.Use(logger.GinMiddleware(log))
	a.engine.Use(middleware.Tracing(cfg.Tracing), middleware.SpanEnricher())
	if a.deps.Metrics != nil {
		a.engine.Use(middleware.Metrics(a.deps.Metrics))
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	a.engine.Use(middleware.CORSWithConfig(cors))

	if cfg.HTTP.MaxBodySize > 0 {
		a.engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	if cfg.HTTP.RateLimitEnabled {
		a.limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		a.engine.Use(middleware.RateLimit(a.limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
}

func (a *API) mountRecords() {
	for _, name := range registry.Modules {
		a.modules[name] = router.NewDomainGroup(name, "/"+name)
	}

	mount(a, registry.Customers())
	mount(a, registry.SalesPersons())
	mount(a, registry.DeliveryChallans())
	mount(a, registry.Regions())
	mount(a, registry.Items())
	mount(a, registry.Categories())
	mount(a, registry.Warehouses())
	mount(a, registry.Vendors())
	mount(a, registry.PurchaseRequisitions())
	mount(a, registry.PurchaseOrders())
	mount(a, registry.Departments())
	mount(a, registry.Designations())
	mount(a, registry.Accounts())

	// deletes are refused while another resource still points at the record
	masterdata.Link(a.linked...)

	for _, name := range registry.Modules {
		a.router.Register(a.modules[name])
	}
}

// mount wires repository, service and handler of one resource
func mount[T shared.Entity](a *API, schema *records.Schema[T]) {
	repo := persistence.NewGormRecordRepository[T](a.deps.DB.DB)
	svc := masterdata.NewRecordService(schema, repo, a.deps.Lookups, a.deps.Logger)

	var observer handler.WriteObserver
	if a.deps.Metrics != nil {
		observer = a.deps.Metrics
	}
	handler.NewRecordHandler[T](svc, observer).Mount(a.modules[schema.Module])
	a.linked = append(a.linked, svc)
}

func (a *API) mountSystem() {
	lookups := router.NewDomainGroup("lookups", "/lookups")
	lookups.GET("/:resource", handler.NewLookupHandler(a.deps.Lookups).Get)

	modules := router.NewDomainGroup("modules", "/modules")
	modules.GET("", handler.NewModulesHandler().List)

	a.router.Register(lookups).Register(modules)
	a.router.Setup()

	// Health check endpoint (outside API versioning)
	a.engine.GET("/health", handler.NewHealthHandler(a.deps.DB).Health)
	if a.deps.Metrics != nil {
		a.engine.GET("/metrics", gin.WrapH(a.deps.Metrics.Handler()))
	}
}

// Handler returns the HTTP handler of the backend
func (a *API) Handler() http.Handler {
	return a.engine
}

// Prefix returns the versioned API mount point
func (a *API) Prefix() string {
	return a.router.Prefix()
}

// Close stops background work owned by the middleware
func (a *API) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
}
