// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/harborware/harborhub/internal/app/policy/retention"
	"github.com/harborware/harborhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for HarborHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, cleanup_api_key, etc.
//   - Environment variables: HARBORHUB_MONGO_URI, HARBORHUB_CLEANUP_API_KEY, etc.
//   - Command-line flags: --mongo_uri, --cleanup_api_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "harbor_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Cleanup endpoint credential
	{Name: "cleanup_api_key", Default: "", Desc: "Shared secret for the cleanup endpoints (required)"},

	// Audit logging settings
	{Name: "audit_log_destination", Default: "all", Desc: "Audit event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Retention policy overrides
	{Name: "retention_window", Default: "1440h", Desc: "Inactivity window before cleanup acts (e.g., 1440h for 60 days)"},
	{Name: "grace_period", Default: "72h", Desc: "Soft-delete dwell time before hard delete (e.g., 72h for 3 days)"},

	// Operation budgets
	{Name: "batch_timeout", Default: "120s", Desc: "Context timeout for a single cleanup run"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, HARBORHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HARBORHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		CleanupAPIKey: appValues.String("cleanup_api_key"),

		AuditLogDestination: appValues.String("audit_log_destination"),

		RetentionWindow: appValues.Duration("retention_window", retention.DefaultRetentionWindow),
		GracePeriod:     appValues.Duration("grace_period", retention.DefaultGracePeriod),

		BatchTimeout: appValues.Duration("batch_timeout", timeouts.DefaultBatch),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// HarborHub validates the MongoDB URI format to catch configuration errors
// before attempting to connect, and refuses to start without a cleanup
// credential so the mutation endpoints can never run open.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.CleanupAPIKey == "" {
		return fmt.Errorf("cleanup_api_key must be set (HARBORHUB_CLEANUP_API_KEY)")
	}

	if appCfg.RetentionWindow <= 0 {
		return fmt.Errorf("retention_window must be positive")
	}
	if appCfg.GracePeriod <= 0 {
		return fmt.Errorf("grace_period must be positive")
	}

	return nil
}
