package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/metabooks/erp/internal/infrastructure/logger"
	"github.com/metabooks/erp/internal/interfaces/http/dto"
	"github.com/metabooks/erp/internal/interfaces/http/middleware"
	"github.com/metabooks/erp/internal/interfaces/http/router"
)

// RecordService is the application service behind one resource
type RecordService[T shared.Entity] interface {
	Module() string
	Resource() string
	List(ctx context.Context, search string) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, rec *T) (*T, error)
	Update(ctx context.Context, id uint, rec *T) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// WriteObserver is told about every successful write
type WriteObserver interface {
	RecordWritten(resource, operation string)
}

// RecordHandler serves the five CRUD endpoints of one resource
type RecordHandler[T shared.Entity] struct {
	BaseHandler
	service  RecordService[T]
	observer WriteObserver
}

// NewRecordHandler creates a handler; observer may be nil
func NewRecordHandler[T shared.Entity](service RecordService[T], observer WriteObserver) *RecordHandler[T] {
	return &RecordHandler[T]{service: service, observer: observer}
}

// Mount registers the resource below its module group
func (h *RecordHandler[T]) Mount(module *router.DomainGroup) {
	res := h.service.Resource()
	module.Group(res, "/"+res).
		GET("", h.List).
		GET("/:id", h.Get).
		POST("", h.Create).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// List returns every record matching the optional search query
func (h *RecordHandler[T]) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	search := strings.TrimSpace(req.Search)

	recs, err := h.service.List(h.ctx(c), search)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, recs, len(recs), search)
}

// Get returns one record
func (h *RecordHandler[T]) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	rec, err := h.service.Get(h.ctx(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Create stores a new record and returns it with 201
func (h *RecordHandler[T]) Create(c *gin.Context) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	created, err := h.service.Create(h.ctx(c), &rec)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.written("create")
	h.Created(c, created)
}

// Update replaces a record
func (h *RecordHandler[T]) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	updated, err := h.service.Update(h.ctx(c), id, &rec)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.written("update")
	h.Success(c, updated)
}

// Delete removes a record
func (h *RecordHandler[T]) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(h.ctx(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.written("delete")
	h.NoContent(c)
}

func (h *RecordHandler[T]) ctx(c *gin.Context) context.Context {
	return logger.WithResource(c.Request.Context(), h.service.Resource())
}

func (h *RecordHandler[T]) written(op string) {
	if h.observer != nil {
		h.observer.RecordWritten(h.service.Resource(), op)
	}
}
