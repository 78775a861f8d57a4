package security

import "go.uber.org/zap/zapcore"

// Severity represents the severity level of a security event.
// It is derived from EventType, never caller-provided.
type Severity string

const (
	SeverityINFO     Severity = "INFO"
	SeverityMEDIUM   Severity = "MEDIUM"
	SeverityWARN     Severity = "WARN"
	SeverityHIGH     Severity = "HIGH"
	SeverityCRITICAL Severity = "CRITICAL"
)

// EventSeverityMap defines the hard-coded severity for each event type
var EventSeverityMap = map[EventType]Severity{
	EventSubscriptionChanged:     SeverityINFO,
	EventInboundEmailUnroutable:  SeverityINFO,
	EventIdentityLookupDegraded:  SeverityMEDIUM,
	EventUpstreamOutputMalformed: SeverityMEDIUM,
	EventRateLimitTriggered:      SeverityWARN,
	EventValidationFailed:        SeverityWARN,
	EventTierDenied:              SeverityWARN,
	EventUploadRejected:          SeverityWARN,
	EventUnauthorizedAccess:      SeverityHIGH,
	EventWebhookRejected:         SeverityHIGH,
	EventUsageStoreUnavailable:   SeverityHIGH,
	EventWebhookUnverified:       SeverityCRITICAL,
	EventServerMisconfigured:     SeverityCRITICAL,
}

// GetSeverity returns the severity for an event type.
// Unmapped events default to MEDIUM.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

// IsHighOrAbove returns true if the event is HIGH or CRITICAL severity
func IsHighOrAbove(eventType EventType) bool {
	severity := GetSeverity(eventType)
	return severity == SeverityHIGH || severity == SeverityCRITICAL
}

// ZapLevel maps a severity onto a log level.
func (s Severity) ZapLevel() zapcore.Level {
	switch s {
	case SeverityINFO, SeverityMEDIUM:
		return zapcore.InfoLevel
	case SeverityWARN:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
