// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidJobVariables  ErrorCode = "INVALID_JOB_VARIABLES"
	ErrCodeNormalizationFailed  ErrorCode = "NORMALIZATION_FAILED"
	ErrCodeQueryNotStructured   ErrorCode = "QUERY_NOT_STRUCTURED"
	ErrCodeRankTableUnavailable ErrorCode = "RANK_TABLE_UNAVAILABLE"
	ErrCodeSeatTableUnavailable ErrorCode = "SEAT_TABLE_UNAVAILABLE"
	ErrCodeDatasetInvalid       ErrorCode = "DATASET_INVALID"
	ErrCodeSeatCacheFailed      ErrorCode = "SEAT_CACHE_FAILED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
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

// NewInvalidJobVariablesError is returned when job variables cannot be decoded at all.
func NewInvalidJobVariablesError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidJobVariables,
		Message:   "Job variables could not be decoded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNormalizationFailedError marks a query description that is not a structured mapping.
// The query is unanswerable; retrying cannot help.
func NewNormalizationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNormalizationFailed,
		Message:   "Query description could not be normalized",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewQueryNotStructuredError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryNotStructured,
		Message:   "Query lacks a rank or an institute/program preference",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewRankTableUnavailableError(exam string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRankTableUnavailable,
		Message:   "Rank reference table unavailable",
		Details:   fmt.Sprintf("exam: %s, error: %s", exam, err.Error()),
		Retryable: false,
		Metadata:  map[string]interface{}{"exam": exam},
		Timestamp: time.Now().UTC(),
	}
}

func NewSeatTableUnavailableError(exam string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSeatTableUnavailable,
		Message:   "Seat allocation table unavailable",
		Details:   fmt.Sprintf("exam: %s, error: %s", exam, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"exam": exam},
		Timestamp: time.Now().UTC(),
	}
}

func NewDatasetInvalidError(path string, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetInvalid,
		Message:   "Dataset file failed schema validation",
		Details:   fmt.Sprintf("path: %s, %s", path, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSeatCacheFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSeatCacheFailed,
		Message:   "Seat result cache error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidJobVariables:  "INVALID_JOB_VARIABLES",
	ErrCodeNormalizationFailed:  "NORMALIZATION_FAILED",
	ErrCodeQueryNotStructured:   "QUERY_NOT_STRUCTURED",
	ErrCodeRankTableUnavailable: "RANK_TABLE_UNAVAILABLE",
	ErrCodeSeatTableUnavailable: "SEAT_TABLE_UNAVAILABLE",
	ErrCodeDatasetInvalid:       "DATASET_INVALID",
	ErrCodeSeatCacheFailed:      "SEAT_CACHE_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSeatTableUnavailable, ErrCodeSeatCacheFailed, "EXTERNAL_SERVICE_ERROR":
		return 3
	case "TIMEOUT_ERROR":
		return 2
	default:
		return 0 // Business errors: no retry
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

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NORMALIZATION") || strings.Contains(codeStr, "VARIABLES"):
		return "INPUT"
	case strings.Contains(codeStr, "TABLE") || strings.Contains(codeStr, "DATASET"):
		return "DATASET"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "STRUCTURED"):
		return "ROUTING"
	case strings.Contains(codeStr, "EXTERNAL") || strings.Contains(codeStr, "TIMEOUT"):
		return "EXTERNAL"
	default:
		return "OTHER"
	}
}
