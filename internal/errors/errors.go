// Package errors provides the error kinds shared by every vf command.
//
// Every failure that reaches the command line is an AppError. The code
// decides the category, the severity used when printing it, and the process
// exit status (see ExitCode). Constructors below cover the kinds the engine,
// the prompt store and the provider layer raise; Wrap attaches a cause to any
// of them.
//
// User cancellation is deliberately absent: interactive flows report it as a
// value, not as an error.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation     ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeInputTooLarge  ErrorCode = "INPUT_TOO_LARGE"
	ErrCodeOptionConflict ErrorCode = "OPTION_CONFLICT"

	// Configuration errors
	ErrCodeConfiguration      ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeNoCredentials      ErrorCode = "NO_CREDENTIALS"
	ErrCodeModelNotSpecified  ErrorCode = "MODEL_NOT_SPECIFIED"
	ErrCodeProviderInference  ErrorCode = "PROVIDER_INFERENCE"
	ErrCodeUnknownMode        ErrorCode = "UNKNOWN_MODE"
	ErrCodeUnsupportedRunMode ErrorCode = "UNSUPPORTED_RUN_MODE"

	// Provider errors
	ErrCodeAICall  ErrorCode = "AI_CALL_FAILED"
	ErrCodeXPost   ErrorCode = "X_POST_FAILED"
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrCodeFileCorrupted  ErrorCode = "FILE_CORRUPTED"

	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryProvider      ErrorCategory = "provider"
	CategoryStorage       ErrorCategory = "storage"
	CategorySystem        ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeInputTooLarge, ErrCodeOptionConflict:
		return CategoryValidation, SeverityWarning

	case ErrCodeConfiguration, ErrCodeNoCredentials, ErrCodeModelNotSpecified,
		ErrCodeProviderInference, ErrCodeUnknownMode, ErrCodeUnsupportedRunMode:
		return CategoryConfiguration, SeverityError

	case ErrCodeAICall, ErrCodeXPost, ErrCodeTimeout:
		return CategoryProvider, SeverityError

	case ErrCodeStorageFailure, ErrCodeFileCorrupted:
		return CategoryStorage, SeverityError
	case ErrCodeFileNotFound:
		return CategoryStorage, SeverityInfo

	case ErrCodeInternalError:
		return CategorySystem, SeverityCritical

	default:
		return CategorySystem, SeverityError
	}
}

// isRetryable reports codes a user can reasonably re-run unchanged.
// Nothing in vf retries on its own.
func isRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeAICall, ErrCodeTimeout, ErrCodeXPost:
		return true
	default:
		return false
	}
}

// IsAppError checks if an error is or wraps an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// ExitCode maps an error to the process exit status. nil means success.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// ValidationError reports a prompt document (or other input) that failed
// validation. path may be empty.
func ValidationError(path, reason string) *AppError {
	msg := reason
	if path != "" {
		msg = fmt.Sprintf("invalid prompt file %s: %s", path, reason)
	}
	return NewAppError(ErrCodeValidation, msg).WithContext("path", path)
}

func InvalidInputError(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message)
}

func InputTooLargeError(length, limit int) *AppError {
	return NewAppError(ErrCodeInputTooLarge,
		fmt.Sprintf("input is too large (%d characters, limit %d)", length, limit)).
		WithContext("length", length).
		WithContext("limit", limit)
}

func OptionConflictError(a, b string) *AppError {
	return NewAppError(ErrCodeOptionConflict, fmt.Sprintf("options --%s and --%s cannot be used together", a, b))
}

func ConfigurationError(message string) *AppError {
	return NewAppError(ErrCodeConfiguration, message)
}

func NoCredentialsError(provider string) *AppError {
	return NewAppError(ErrCodeNoCredentials,
		fmt.Sprintf("no credentials configured for provider %q", provider)).
		WithDetails("set the provider's API key in the environment or .env file").
		WithContext("provider", provider)
}

func ModelNotSpecifiedError(provider string) *AppError {
	return NewAppError(ErrCodeModelNotSpecified,
		fmt.Sprintf("model not specified for provider %q", provider)).
		WithDetails("pass --model or set model in the prompt frontmatter").
		WithContext("provider", provider)
}

func ProviderInferenceError(model string) *AppError {
	return NewAppError(ErrCodeProviderInference,
		fmt.Sprintf("could not determine a provider for model %q", model)).
		WithDetails("add the model with 'vf models add <provider> <model>'").
		WithContext("model", model)
}

func UnknownModeError(mode string) *AppError {
	return NewAppError(ErrCodeUnknownMode, fmt.Sprintf("unknown mode %q", mode)).
		WithContext("mode", mode)
}

func BackgroundNotSupportedError(mode string) *AppError {
	return NewAppError(ErrCodeUnsupportedRunMode,
		fmt.Sprintf("mode %q does not support background output", mode)).
		WithContext("mode", mode)
}

func DetachNotSupportedError(mode string) *AppError {
	return NewAppError(ErrCodeUnsupportedRunMode,
		fmt.Sprintf("mode %q cannot run detached", mode)).
		WithContext("mode", mode)
}

// AICallError wraps a failed provider call. Deadline and network timeouts
// get ErrCodeTimeout.
func AICallError(provider, model string, err error) *AppError {
	if isTimeout(err) {
		return Wrap(err, ErrCodeTimeout, fmt.Sprintf("AI request to %s (%s) timed out", provider, model)).
			WithContext("provider", provider).
			WithContext("model", model)
	}
	return Wrap(err, ErrCodeAICall, fmt.Sprintf("AI request to %s (%s) failed", provider, model)).
		WithContext("provider", provider).
		WithContext("model", model)
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func XPostError(err error) *AppError {
	return Wrap(err, ErrCodeXPost, "posting to X failed")
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}
