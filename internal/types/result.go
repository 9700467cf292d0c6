package types

import "time"

// ErrorCode is the machine-readable classification of a pipeline fault.
type ErrorCode string

const (
	CodeMissingParameter    ErrorCode = "MISSING_PARAMETER"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeInvalidState        ErrorCode = "INVALID_STATE"
	CodeInvalidCVData       ErrorCode = "INVALID_CV_DATA"
	CodeHuggingFaceAPIError ErrorCode = "HUGGINGFACE_API_ERROR"
	CodeDeploymentFailed    ErrorCode = "DEPLOYMENT_FAILED"
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

// ErrorCategory groups error codes by the kind of corrective action needed.
type ErrorCategory string

const (
	CategoryValidation  ErrorCategory = "VALIDATION"
	CategoryExternalAPI ErrorCategory = "EXTERNAL_API"
	CategorySystem      ErrorCategory = "SYSTEM"
)

// ErrorContext captures pipeline progress at the moment of failure.
type ErrorContext struct {
	StepsCompleted   []GenerationStep `json:"stepsCompleted"`
	ProcessingTimeMs int64            `json:"processingTimeMs"`
}

// PortalError is the structured error record persisted on a failed portal and
// returned to the caller. Message is sanitized and user-facing; Details keeps
// the raw fault text for diagnostics.
type PortalError struct {
	Code        ErrorCode     `json:"code"`
	Message     string        `json:"message"`
	Details     string        `json:"details,omitempty"`
	Context     *ErrorContext `json:"context,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
	Recoverable bool          `json:"recoverable"`
	Category    ErrorCategory `json:"category"`
}

// GenerationMetadata describes one pipeline invocation.
type GenerationMetadata struct {
	JobID      string    `json:"jobId"`
	UserID     string    `json:"userId"`
	PortalID   string    `json:"portalId,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// GenerationResult is the complete outcome of one pipeline invocation.
// The pipeline never raises past its boundary; callers always receive one of
// these, with Success indicating which branch of the contract applies.
type GenerationResult struct {
	Success          bool                `json:"success"`
	Portal           *Portal             `json:"portal,omitempty"`
	Urls             *PortalUrls         `json:"urls,omitempty"`
	Error            *PortalError        `json:"error,omitempty"`
	Metadata         *GenerationMetadata `json:"metadata,omitempty"`
	ProcessingTimeMs int64               `json:"processingTimeMs"`
	StepsCompleted   []GenerationStep    `json:"stepsCompleted"`
	Warnings         []string            `json:"warnings,omitempty"`
}
