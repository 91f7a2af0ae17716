package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.Prefix())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.Prefix())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()

	purchasing := NewDomainGroup("purchasing", "/purchasing")
	purchasing.Group("orders", "/purchase-orders").
		GET("", ok).
		GET("/:id", ok).
		POST("", ok).
		PUT("/:id", ok).
		DELETE("/:id", ok)

	hr := NewDomainGroup("hr", "/hr")
	hr.Group("departments", "/departments").GET("", ok)

	NewRouter(engine).Register(purchasing).Register(hr).Setup()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/purchasing/purchase-orders", http.StatusOK},
		{http.MethodGet, "/api/v1/purchasing/purchase-orders/3", http.StatusOK},
		{http.MethodPost, "/api/v1/purchasing/purchase-orders", http.StatusOK},
		{http.MethodPut, "/api/v1/purchasing/purchase-orders/3", http.StatusOK},
		{http.MethodDelete, "/api/v1/purchasing/purchase-orders/3", http.StatusOK},
		{http.MethodGet, "/api/v1/hr/departments", http.StatusOK},
		{http.MethodGet, "/purchasing/purchase-orders", http.StatusNotFound},
		{http.MethodGet, "/api/v1/hr/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()

	var hits []string
	group := NewDomainGroup("sales", "/sales").Use(func(c *gin.Context) {
		hits = append(hits, c.FullPath())
		c.Next()
	})
	group.GET("/customers", ok)

	other := NewDomainGroup("hr", "/hr").GET("/departments", ok)

	NewRouter(engine).Register(group).Register(other).Setup()

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/sales/customers", nil))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/hr/departments", nil))

	assert.Equal(t, []string{"/api/v1/sales/customers"}, hits)
}

func TestDomainGroup_Routes(t *testing.T) {
	group := NewDomainGroup("inventory", "/inventory")
	group.GET("/summary", ok)
	group.Group("items", "/items").GET("", ok).DELETE("/:id", ok)

	assert.Equal(t, "inventory", group.Name())
	assert.Equal(t, "/inventory", group.Prefix())
	assert.Equal(t, []string{
		"GET /inventory/summary",
		"GET /inventory/items",
		"DELETE /inventory/items/:id",
	}, group.Routes())
}
