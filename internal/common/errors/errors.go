// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Underwriting pipeline errors. Data-domain codes are never retried.
const (
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeMissingField       ErrorCode = "MISSING_FIELD"
	ErrCodeStructural         ErrorCode = "STRUCTURAL_ERROR"
	ErrCodeUnknownState       ErrorCode = "UNKNOWN_STATE"
	ErrCodeUnseenCategory     ErrorCode = "UNSEEN_CATEGORY"
	ErrCodeArtifactLoadFailed ErrorCode = "ARTIFACT_LOAD_FAILED"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeUnexpected         ErrorCode = "UNEXPECTED_ERROR"
	ErrCodeParse              ErrorCode = "PARSE_ERROR"
)

// Infrastructure errors around the decision.
const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDecisionCacheFailed      ErrorCode = "DECISION_CACHE_FAILED"
	ErrCodeDecisionIndexFailed      ErrorCode = "DECISION_INDEX_FAILED"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeExternalService          ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout                  ErrorCode = "TIMEOUT_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	// Cause is kept for diagnostics and never serialized to the engine.
	Cause error `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewValidationError reports semantically incomplete caller data.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   "Submission validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingFieldError names the absent key.
func NewMissingFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingField,
		Message:   "Required field missing",
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

func NewStructuralError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStructural,
		Message:   "Feature row does not match the model layout",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnknownStateError(state string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownState,
		Message:   "State not present in the state reference table",
		Details:   fmt.Sprintf("state: %s", state),
		Retryable: false,
		Metadata:  map[string]interface{}{"state": state},
		Timestamp: time.Now().UTC(),
	}
}

func NewUnseenCategoryError(column, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnseenCategory,
		Message:   "Category not seen when the encoder was fitted",
		Details:   fmt.Sprintf("column: %s, value: %s", column, value),
		Retryable: false,
		Metadata:  map[string]interface{}{"column": column, "value": value},
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactLoadError is fatal at startup.
func NewArtifactLoadError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactLoadFailed,
		Message:   "Model artifact could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewServiceUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceUnavailable,
		Message:   "Decision service unavailable",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedError hides the cause from the engine but keeps it for logs.
func NewUnexpectedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpected,
		Message:   fmt.Sprintf("Unexpected error in %s", stage),
		Retryable: false,
		Metadata:  map[string]interface{}{"stage": stage},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParse,
		Message:   "Job variables could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewDecisionCacheFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecisionCacheFailed,
		Message:   "Decision cache operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewDecisionIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecisionIndexFailed,
		Message:   "Decision indexing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewExternalServiceError wraps a failure of a dependency such as the broker.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service %s failed", service),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Call to %s timed out", service),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes. Codes missing
// from the map pass through unchanged.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidation:         "SUBMISSION_INVALID",
	ErrCodeMissingField:       "SUBMISSION_INVALID",
	ErrCodeParse:              "SUBMISSION_INVALID",
	ErrCodeUnknownState:       "SUBMISSION_OUT_OF_DOMAIN",
	ErrCodeUnseenCategory:     "SUBMISSION_OUT_OF_DOMAIN",
	ErrCodeStructural:         "DECISION_FAILED",
	ErrCodeUnexpected:         "DECISION_FAILED",
	ErrCodeArtifactLoadFailed: "SERVICE_UNAVAILABLE",
	ErrCodeServiceUnavailable: "SERVICE_UNAVAILABLE",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeDecisionIndexFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeDecisionCacheFailed,
		ErrCodeTimeout:
		return 2

	default:
		return 0 // Business and data errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandard unwraps err to the first StandardError in its chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the error code of err, or ErrCodeUnexpected when err carries none.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Code
	}
	return ErrCodeUnexpected
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidation, ErrCodeMissingField, ErrCodeParse:
		return "VALIDATION"
	case ErrCodeUnknownState, ErrCodeUnseenCategory:
		return "DATA_DOMAIN"
	case ErrCodeArtifactLoadFailed, ErrCodeServiceUnavailable:
		return "ARTIFACT"
	}

	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"), strings.Contains(codeStr, "INDEX"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case code == ErrCodeExternalService, code == ErrCodeTimeout:
		return "EXTERNAL"
	default:
		return "OTHER"
	}
}
