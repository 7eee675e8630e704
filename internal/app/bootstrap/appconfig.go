// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where everything specific to HarborHub lives: the MongoDB
// connection, the cleanup credential, and the retention policy knobs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// CleanupAPIKey is the shared secret required on every cleanup endpoint.
	// Startup refuses to proceed without it; there is no unauthenticated mode.
	CleanupAPIKey string

	// Audit logging destination: "all" (db+log), "db", "log", or "off".
	AuditLogDestination string

	// Retention policy knobs. Zero values fall back to the policy defaults.
	RetentionWindow time.Duration // age at which active entities are acted on
	GracePeriod     time.Duration // soft-deleted dwell time before hard delete

	// BatchTimeout caps how long a single cleanup run may hold its context.
	BatchTimeout time.Duration
}
