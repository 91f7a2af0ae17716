package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormConfig controls database spans
type GormConfig struct {
	Enabled    bool
	DBSystem   string
	LogFullSQL bool
}

// RegisterGorm installs the otelgorm plugin so every statement becomes a
// child span of the request. Query variables are left out unless
// LogFullSQL is set.
func RegisterGorm(db *gorm.DB, cfg GormConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	logger.Info("Database tracing enabled", zap.String("db_system", cfg.DBSystem))
	return nil
}
