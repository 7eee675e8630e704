// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/harborware/harborhub/internal/app/store/audit"
	"go.uber.org/zap"
)

// Config controls where lifecycle audit events go.
// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only),
// "off" (disabled).
type Config struct {
	Destination string
}

// Logger writes lifecycle audit entries to the append-only audit collection
// and mirrors them to structured logs. Every state-changing mutation done by
// a cleanup job or a user-initiated delete goes through here; nothing else
// may append to the audit collection.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(e audit.Entry) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("event_type", e.EventType),
		zap.String("entity_type", e.EntityType),
		zap.String("entity_id", e.EntityID),
		zap.String("action", e.Action),
	}
	if e.EntityName != "" {
		fields = append(fields, zap.String("entity_name", e.EntityName))
	}
	if e.RelatedBatchID != "" {
		fields = append(fields, zap.String("batch_id", e.RelatedBatchID))
	}
	if e.InitiatedBy.Source != "" {
		fields = append(fields, zap.String("initiated_by", e.InitiatedBy.Source))
	} else {
		fields = append(fields, zap.String("initiated_by", e.InitiatedBy.Email))
	}
	if e.Reason != "" {
		fields = append(fields, zap.String("reason", e.Reason))
	}
	for k, v := range e.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if e.Action == audit.ActionCleanupFailed {
		l.zapLog.Warn("audit event", fields...)
	} else {
		l.zapLog.Info("audit event", fields...)
	}
}

// Append records an audit entry based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit
// logger). A failed Mongo write is logged and returned; the caller decides
// whether the surrounding batch aborts.
func (l *Logger) Append(ctx context.Context, e audit.Entry) error {
	if l == nil {
		return nil
	}

	dest := l.config.Destination
	if dest == "" {
		dest = "all"
	}
	if dest == "off" {
		return nil
	}

	if dest == "all" || dest == "log" {
		l.logToZap(e)
	}

	if dest == "all" || dest == "db" {
		if err := l.store.Append(ctx, e); err != nil {
			l.zapLog.Error("failed to store audit entry",
				zap.Error(err),
				zap.String("event_type", e.EventType),
				zap.String("entity_id", e.EntityID),
			)
			return err
		}
	}
	return nil
}
