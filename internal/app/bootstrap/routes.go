// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	cleanupfeature "github.com/harborware/harborhub/internal/app/features/cleanup"
	groupsfeature "github.com/harborware/harborhub/internal/app/features/groups"
	healthfeature "github.com/harborware/harborhub/internal/app/features/health"
	"github.com/harborware/harborhub/internal/app/jobs"
	"github.com/harborware/harborhub/internal/app/policy/retention"
	"github.com/harborware/harborhub/internal/app/store/audit"
	conversationstore "github.com/harborware/harborhub/internal/app/store/conversations"
	groupstore "github.com/harborware/harborhub/internal/app/store/groups"
	resourcestore "github.com/harborware/harborhub/internal/app/store/resources"
	userstore "github.com/harborware/harborhub/internal/app/store/users"
	"github.com/harborware/harborhub/internal/app/system/auditlog"
	"github.com/harborware/harborhub/internal/app/system/cleanupkey"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. HarborHub wires the stores, the retention
// policy, the four cleanup jobs, and mounts the feature routers: health,
// cleanup, and group management.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	groups := groupstore.New(db)
	resources := resourcestore.New(db)
	conversations := conversationstore.New(db)
	users := userstore.New(db)

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Destination: appCfg.AuditLogDestination,
	})

	rules := retention.Rules{
		RetentionWindow: appCfg.RetentionWindow,
		GracePeriod:     appCfg.GracePeriod,
	}

	verifier := cleanupkey.NewVerifier(appCfg.CleanupAPIKey)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Cleanup batches, behind the shared-key check
	cleanupHandler := cleanupfeature.NewHandler(
		jobs.NewResources(resources, auditLog, rules, logger),
		jobs.NewConversations(conversations, auditLog, rules, logger),
		jobs.NewUsers(users, auditLog, rules, logger),
		jobs.NewGroups(groups, auditLog, rules, logger),
		logger,
	)
	r.Mount("/cleanup", cleanupfeature.Routes(cleanupHandler, verifier, logger))

	// Group management
	groupsHandler := groupsfeature.NewHandler(groups, resources, conversations, auditLog, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	return r, nil
}
