package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventRateLimitTriggered      EventType = "rate_limit_triggered"
	EventUnauthorizedAccess      EventType = "unauthorized_access"
	EventTierDenied              EventType = "tier_denied"
	EventWebhookRejected         EventType = "webhook_signature_rejected"
	EventWebhookUnverified       EventType = "webhook_verification_disabled"
	EventUploadRejected          EventType = "upload_rejected"
	EventValidationFailed        EventType = "validation_failed"
	EventSubscriptionChanged     EventType = "subscription_changed"
	EventInboundEmailUnroutable  EventType = "inbound_email_unroutable"
	EventIdentityLookupDegraded  EventType = "identity_lookup_degraded"
	EventUsageStoreUnavailable   EventType = "usage_store_unavailable"
	EventServerMisconfigured     EventType = "server_misconfigured"
	EventUpstreamOutputMalformed EventType = "upstream_output_malformed"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time      `json:"timestamp"`
	Service      string         `json:"service"`
	Environment  string         `json:"env"`
	Level        string         `json:"level"`
	Event        EventType      `json:"event"`
	SubjectType  string         `json:"subject_type,omitempty"`  // "fingerprint", "user_id", "email"
	SubjectValue string         `json:"subject_value,omitempty"` // masked or hashed
	RequestID    string         `json:"request_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

// SecurityLogger provides structured logging for security events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var defaultLogger *SecurityLogger

// InitSecurityLogger initializes the default security logger with Zap
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	defaultLogger = NewSecurityLogger(logger, serviceName, environment)
	return defaultLogger
}

// NewSecurityLogger wraps an existing zap logger.
func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{zapLogger: logger, serviceName: serviceName, environment: environment}
}

// DefaultLogger returns the default security logger instance
func DefaultLogger() *SecurityLogger {
	if defaultLogger == nil {
		return NewSecurityLogger(zap.NewNop(), "resumeai-backend", "development")
	}
	return defaultLogger
}

// Log logs a security event at the level derived from its severity
func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment

	level := GetSeverity(event.Event).ZapLevel()
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(GetSeverity(event.Event))),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogRateLimitTriggered logs a daily quota rejection
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, fingerprint, requestID, feature, tier string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "fingerprint",
		SubjectValue: fingerprint,
		RequestID:    requestID,
		Details:      map[string]any{"feature": feature, "tier": tier},
	})
}

// LogUnauthorized logs a rejected or missing credential on a protected route
func (sl *SecurityLogger) LogUnauthorized(ctx context.Context, fingerprint, requestID, path, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUnauthorizedAccess,
		SubjectType:  "fingerprint",
		SubjectValue: fingerprint,
		RequestID:    requestID,
		Details:      map[string]any{"path": path, "reason": reason},
	})
}

// LogTierDenied logs a paid-feature request from an insufficient tier
func (sl *SecurityLogger) LogTierDenied(ctx context.Context, userID, requestID, path, tier string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventTierDenied,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		RequestID:    requestID,
		Details:      map[string]any{"path": path, "tier": tier},
	})
}

// LogWebhookRejected logs a webhook whose signature did not verify
func (sl *SecurityLogger) LogWebhookRejected(ctx context.Context, source, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:   EventWebhookRejected,
		Details: map[string]any{"source": source, "reason": reason},
	})
}

// LogWebhookUnverified flags a webhook accepted without a configured secret
func (sl *SecurityLogger) LogWebhookUnverified(ctx context.Context, source string) {
	sl.Log(ctx, SecurityEvent{
		Event:   EventWebhookUnverified,
		Details: map[string]any{"source": source, "warning": "unsafe for production"},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := -1
	for i, c := range email {
		if c == '@' {
			atIndex = i
			break
		}
	}
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
