package errors

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// CLIErrorHandler handles errors for the command line.
type CLIErrorHandler struct {
	Verbose bool
	logger  *zap.Logger
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(verbose bool, logger *zap.Logger) *CLIErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLIErrorHandler{
		Verbose: verbose,
		logger:  logger,
	}
}

// HandleError logs err and returns it formatted for display.
func (h *CLIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	fields := []zap.Field{
		zap.String("code", string(appErr.Code)),
		zap.String("severity", string(appErr.Severity)),
	}
	for k, v := range appErr.Context {
		fields = append(fields, zap.Any(k, v))
	}
	if appErr.Cause != nil {
		fields = append(fields, zap.NamedError("cause", appErr.Cause))
	}
	h.logger.Debug(appErr.Message, fields...)

	return fmt.Errorf("%s", h.FormatError(appErr))
}

// FormatError formats an error for terminal display
func (h *CLIErrorHandler) FormatError(err error) string {
	if !IsAppError(err) {
		return "❌ ERROR: " + err.Error()
	}
	appErr := GetAppError(err)

	var b strings.Builder
	switch appErr.Severity {
	case SeverityCritical:
		b.WriteString("❌ CRITICAL: ")
	case SeverityError:
		b.WriteString("❌ ERROR: ")
	case SeverityWarning:
		b.WriteString("⚠️  WARNING: ")
	case SeverityInfo:
		b.WriteString("ℹ️  INFO: ")
	default:
		b.WriteString("❌ ")
	}
	b.WriteString(appErr.Message)

	if appErr.Details != "" {
		b.WriteString("\n   ")
		b.WriteString(appErr.Details)
	}
	if appErr.IsRetryable() {
		b.WriteString("\n   this may be temporary; run the command again")
	}
	if h.Verbose && appErr.Cause != nil {
		b.WriteString("\n   caused by: ")
		b.WriteString(appErr.Cause.Error())
	}
	return b.String()
}
