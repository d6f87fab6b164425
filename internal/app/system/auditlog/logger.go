// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/store"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout).
	// Values: "all" (store + zap), "db" (store only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin action events (member/family/finance
	// CRUD, grants). Same values as Auth.
	Admin string
}

// Logger provides convenience methods for recording audit events. It
// writes to both the audit store and structured logs, per Config.
type Logger struct {
	store  store.AuditStore
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(auditStore store.AuditStore, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  auditStore,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event store.AuditEvent) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.String()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.String()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration. A nil logger is a
// no-op so tests can skip auditing entirely.
func (l *Logger) Log(ctx context.Context, event store.AuditEvent) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case store.AuditCategoryAuth:
		setting = l.config.Auth
	case store.AuditCategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID uuid.UUID, email string) {
	l.Log(ctx, store.AuditEvent{
		Category:  store.AuditCategoryAuth,
		EventType: store.EventLoginSuccess,
		ActorID:   &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailedUserNotFound logs a failed login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, store.AuditEvent{
		Category:      store.AuditCategoryAuth,
		EventType:     store.EventLoginFailedUserNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details: map[string]string{
			"attempted_email": attemptedEmail,
		},
	})
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID uuid.UUID, email string) {
	l.Log(ctx, store.AuditEvent{
		Category:      store.AuditCategoryAuth,
		EventType:     store.EventLoginFailedWrongPassword,
		ActorID:       &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailedUserDisabled logs a failed login into a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID uuid.UUID, email string) {
	l.Log(ctx, store.AuditEvent{
		Category:      store.AuditCategoryAuth,
		EventType:     store.EventLoginFailedUserDisabled,
		ActorID:       &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user disabled",
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailedRateLimit logs a login rejected by the rate limiter.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, store.AuditEvent{
		Category:      store.AuditCategoryAuth,
		EventType:     store.EventLoginFailedRateLimit,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "rate limited",
		Details: map[string]string{
			"attempted_email": attemptedEmail,
		},
	})
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID uuid.UUID) {
	l.Log(ctx, store.AuditEvent{
		Category:  store.AuditCategoryAuth,
		EventType: store.EventLogout,
		ActorID:   &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Admin events ---

// AdminAction logs one back-office mutation. eventType is one of the
// store.Event* admin constants; target is the affected record.
func (l *Logger) AdminAction(ctx context.Context, r *http.Request, eventType string, actorID uuid.UUID, targetID uuid.UUID, details map[string]string) {
	event := store.AuditEvent{
		Category:  store.AuditCategoryAdmin,
		EventType: eventType,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	}
	if targetID != uuid.Nil {
		event.TargetID = &targetID
	}
	l.Log(ctx, event)
}
