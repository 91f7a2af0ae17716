package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/metabooks/erp/internal/application/registry"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/metabooks/erp/internal/infrastructure/persistence"
	"github.com/metabooks/erp/internal/interfaces/http/dto"
	"github.com/metabooks/erp/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLookupProvider struct {
	mock.Mock
}

func (m *MockLookupProvider) Lookup(ctx context.Context, resource string) (shared.References, error) {
	args := m.Called(ctx, resource)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(shared.References), args.Error(1)
}

func TestLookupHandler(t *testing.T) {
	provider := new(MockLookupProvider)
	provider.On("Lookup", mock.Anything, "vendors").
		Return(shared.References{{ID: 1, Label: "Acme"}, {ID: 2, Label: "Globex"}}, nil)
	provider.On("Lookup", mock.Anything, "unicorns").
		Return(nil, shared.ErrUnknownResource.WithMessage(`unknown resource "unicorns"`))

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/lookups/:resource", NewLookupHandler(provider).Get)

	w := serve(engine, http.MethodGet, "/lookups/vendors", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []shared.Reference `json:"data"`
		Meta dto.Meta           `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []shared.Reference{{ID: 1, Label: "Acme"}, {ID: 2, Label: "Globex"}}, body.Data)
	assert.Equal(t, 2, body.Meta.Total)

	w = serve(engine, http.MethodGet, "/lookups/unicorns", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}

func TestModulesHandler(t *testing.T) {
	engine := gin.New()
	engine.GET("/modules", NewModulesHandler().List)

	w := serve(engine, http.MethodGet, "/modules", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []ModuleInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	require.Len(t, body.Data, len(registry.Modules))
	total := 0
	for i, m := range body.Data {
		assert.Equal(t, registry.Modules[i], m.Name)
		for _, e := range m.Resources {
			assert.Equal(t, m.Name, e.Module)
		}
		total += len(m.Resources)
	}
	assert.Equal(t, len(registry.Catalogue()), total)
}

type fakeProbe struct {
	err error
}

func (p fakeProbe) Ping() error { return p.err }

func (p fakeProbe) Stats() (persistence.ConnectionStats, error) {
	return persistence.ConnectionStats{MaxOpenConnections: 1, OpenConnections: 1, Idle: 1}, nil
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		probe      fakeProbe
		wantStatus int
		wantState  string
	}{
		{"healthy", fakeProbe{}, http.StatusOK, "healthy"},
		{"database down", fakeProbe{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/health", NewHealthHandler(tt.probe).Health)

			w := serve(engine, http.MethodGet, "/health", "")
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantState, resp.Status)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, resp.Pool)
				assert.Equal(t, 1, resp.Pool.MaxOpenConnections)
			} else {
				assert.Nil(t, resp.Pool)
				assert.Equal(t, "error", resp.Database)
			}
		})
	}
}
