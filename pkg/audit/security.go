// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events in structured JSON format for easy parsing
// and integration with security information and event management systems.
package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/logging"
	"github.com/ekaya-inc/chatbot-admin/pkg/middleware"
)

// maxParamValueLength caps attacker-controlled values copied into audit events.
const maxParamValueLength = 256

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection flags a request parameter.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventParameterValidation is logged when a query parameter is rejected.
	EventParameterValidation SecurityEventType = "parameter_validation_failure"
	// EventDataExport is logged when a bot's knowledge base is exported.
	EventDataExport SecurityEventType = "data_export"
)

// SecurityEvent represents an auditable security event with all relevant context
// for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	Resource  string            `json:"resource"`
	RequestID string            `json:"request_id,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// InjectionDetails contains specifics of a detected SQL injection attempt.
type InjectionDetails struct {
	ParamName   string `json:"param_name"`
	ParamValue  string `json:"param_value"`
	Fingerprint string `json:"fingerprint"` // libinjection fingerprint for pattern analysis
}

// SecurityAuditor logs security events for SIEM consumption.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated
// "security_audit" logger namespace.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

func (a *SecurityAuditor) newEvent(ctx context.Context, eventType SecurityEventType, resource, clientIP, severity string, details any) SecurityEvent {
	return SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Resource:  resource,
		RequestID: middleware.GetRequestID(ctx),
		UserID:    auth.GetUserIDFromContext(ctx),
		ClientIP:  clientIP,
		Details:   details,
		Severity:  severity,
	}
}

// LogInjectionAttempt records a detected SQL injection attempt.
// This is logged at ERROR level with "critical" severity for immediate alerting.
//
// Example usage:
//
//	auditor.LogInjectionAttempt(ctx, "intents",
//	    audit.InjectionDetails{
//	        ParamName:   "sort",
//	        ParamValue:  "name; DROP TABLE intent--",
//	        Fingerprint: "s&1c",
//	    },
//	    r.RemoteAddr,
//	)
func (a *SecurityAuditor) LogInjectionAttempt(ctx context.Context, resource string, details InjectionDetails, clientIP string) {
	details.ParamValue = logging.TruncateString(details.ParamValue, maxParamValueLength)
	event := a.newEvent(ctx, EventSQLInjectionAttempt, resource, clientIP, "critical", details)

	// Marshaling known types cannot fail
	eventJSON, _ := json.Marshal(event)

	a.logger.Error("SQL injection attempt detected",
		zap.String("event_json", string(eventJSON)),
		zap.String("resource", resource),
		zap.String("param_name", details.ParamName),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("client_ip", clientIP),
		zap.String("user_id", event.UserID),
		zap.String("request_id", event.RequestID),
		zap.String("severity", "critical"),
	)
}

// LogParameterValidation records a rejected request parameter.
// This is logged at WARN level as these are typically user errors, not attacks.
func (a *SecurityAuditor) LogParameterValidation(ctx context.Context, resource, errorMessage, clientIP string) {
	event := a.newEvent(ctx, EventParameterValidation, resource, clientIP, "warning",
		map[string]string{"error": errorMessage})

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Parameter validation failed",
		zap.String("event_json", string(eventJSON)),
		zap.String("resource", resource),
		zap.String("error", errorMessage),
		zap.String("client_ip", clientIP),
		zap.String("user_id", event.UserID),
		zap.String("severity", "warning"),
	)
}

// LogDataExport records a knowledge base export for the audit trail.
func (a *SecurityAuditor) LogDataExport(ctx context.Context, botID int64, clientIP string) {
	event := a.newEvent(ctx, EventDataExport, "bots", clientIP, "info",
		map[string]string{"bot_id": strconv.FormatInt(botID, 10)})

	eventJSON, _ := json.Marshal(event)

	a.logger.Info("Knowledge base exported",
		zap.String("event_json", string(eventJSON)),
		zap.Int64("bot_id", botID),
		zap.String("client_ip", clientIP),
		zap.String("user_id", event.UserID),
		zap.String("severity", "info"),
	)
}
