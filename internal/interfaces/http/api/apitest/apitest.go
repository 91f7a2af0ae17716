// Package apitest runs the complete backend on an in-memory database for
// tests that need a real server.
package apitest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/metabooks/erp/internal/application/masterdata"
	"github.com/metabooks/erp/internal/infrastructure/cache"
	"github.com/metabooks/erp/internal/infrastructure/client"
	"github.com/metabooks/erp/internal/infrastructure/config"
	"github.com/metabooks/erp/internal/infrastructure/metrics"
	"github.com/metabooks/erp/internal/infrastructure/persistence"
	"github.com/metabooks/erp/internal/interfaces/http/api"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Server is a running backend
type Server struct {
	*httptest.Server
	API     *api.API
	DB      *persistence.Database
	Metrics *metrics.Registry
	Client  *client.Client
}

// Option adjusts the HTTP configuration before the backend is built
type Option func(*config.HTTPConfig)

// WithRateLimit enables the per-client rate limit
func WithRateLimit(requests int, window time.Duration) Option {
	return func(c *config.HTTPConfig) {
		c.RateLimitEnabled = true
		c.RateLimitRequests = requests
		c.RateLimitWindow = window
	}
}

// NewServer starts the backend on a fresh in-memory sqlite database. The
// server and database are closed when the test ends.
func NewServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	log := zap.NewNop()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
	}, log, persistence.WithLogLevel(gormlogger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	httpCfg := config.HTTPConfig{MaxBodySize: 1 << 20}
	for _, opt := range opts {
		opt(&httpCfg)
	}

	reg := metrics.New(metrics.DefaultConfig())
	lookupCache := cache.NewInMemoryLookupCache(log)
	lookups := masterdata.NewLookupService(lookupCache, time.Minute, log)
	a := api.New(api.Config{HTTP: httpCfg}, api.Deps{
		DB:      db,
		Lookups: lookups,
		Metrics: reg,
		Logger:  log,
	})

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		a.Close()
		_ = lookupCache.Close()
		_ = db.Close()
	})

	c, err := client.New(srv.URL, a.Prefix(), client.WithRetry(client.RetryConfig{MaxRetries: 0}))
	require.NoError(t, err)

	return &Server{Server: srv, API: a, DB: db, Metrics: reg, Client: c}
}
