package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/metabooks/erp/internal/application/registry"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/metabooks/erp/internal/infrastructure/logger"
	"github.com/metabooks/erp/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// LookupProvider serves lookup collections by resource name
type LookupProvider interface {
	Lookup(ctx context.Context, resource string) (shared.References, error)
}

// LookupHandler serves GET /lookups/:resource
type LookupHandler struct {
	BaseHandler
	lookups LookupProvider
}

// NewLookupHandler creates a LookupHandler
func NewLookupHandler(lookups LookupProvider) *LookupHandler {
	return &LookupHandler{lookups: lookups}
}

// Get returns the {id, label} pairs of one resource
func (h *LookupHandler) Get(c *gin.Context) {
	resource := c.Param("resource")
	refs, err := h.lookups.Lookup(logger.WithResource(c.Request.Context(), resource), resource)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, refs, len(refs), "")
}

// ModuleInfo is one module tab of the catalogue
type ModuleInfo struct {
	Name      string           `json:"name"`
	Resources []registry.Entry `json:"resources"`
}

// ModulesHandler serves the resource catalogue
type ModulesHandler struct {
	BaseHandler
}

// NewModulesHandler creates a ModulesHandler
func NewModulesHandler() *ModulesHandler {
	return &ModulesHandler{}
}

// List returns the module tabs in display order with their resources
func (h *ModulesHandler) List(c *gin.Context) {
	modules := make([]ModuleInfo, 0, len(registry.Modules))
	for _, m := range registry.Modules {
		modules = append(modules, ModuleInfo{Name: m, Resources: registry.ByModule(m)})
	}
	h.Success(c, modules)
}

// DatabaseProbe reports database reachability
type DatabaseProbe interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string                       `json:"status"`
	Time      string                       `json:"time"`
	Uptime    string                       `json:"uptime"`
	GoVersion string                       `json:"go_version"`
	Database  string                       `json:"database"`
	Pool      *persistence.ConnectionStats `json:"pool,omitempty"`
}

// HealthHandler serves GET /health
type HealthHandler struct {
	db        DatabaseProbe
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler
func NewHealthHandler(db DatabaseProbe) *HealthHandler {
	return &HealthHandler{db: db, startTime: time.Now()}
}

// Health reports 200 when the database answers and 503 otherwise
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Time:      time.Now().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		GoVersion: runtime.Version(),
		Database:  "ok",
	}

	if err := h.db.Ping(); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}
	c.JSON(http.StatusOK, resp)
}
