// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/harborware/harborhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{Batch: appCfg.BatchTimeout})

	logger.Info("harborhub starting",
		zap.Duration("retention_window", appCfg.RetentionWindow),
		zap.Duration("grace_period", appCfg.GracePeriod),
		zap.String("audit_log_destination", appCfg.AuditLogDestination))
	return nil
}
