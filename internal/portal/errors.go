// Package portal implements the portal generation pipeline: precondition
// validation, the fixed stage sequence, progress persistence and fault
// classification.
package portal

import (
	"fmt"

	"github.com/jonathan/cv-portal/internal/types"
)

// The pipeline raises typed faults at the point of failure so classification
// can go by tag instead of message text. Messages still carry the wording
// downstream consumers and log greps rely on.

// MissingParameterError indicates the caller omitted a required input.
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s is required", e.Param)
}

// Kind returns the fault's taxonomy code.
func (e *MissingParameterError) Kind() types.ErrorCode { return types.CodeMissingParameter }

// JobNotFoundError indicates the referenced CV job does not exist.
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("Job %s not found", e.JobID)
}

// Kind returns the fault's taxonomy code.
func (e *JobNotFoundError) Kind() types.ErrorCode { return types.CodeNotFound }

// UnauthorizedError indicates the caller does not own the referenced job.
type UnauthorizedError struct {
	JobID  string
	UserID string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("Unauthorized: user %s does not own job %s", e.UserID, e.JobID)
}

// Kind returns the fault's taxonomy code.
func (e *UnauthorizedError) Kind() types.ErrorCode { return types.CodeUnauthorized }

// InvalidStateError indicates the job has not finished CV processing.
type InvalidStateError struct {
	Status types.JobStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("CV processing must be completed before portal generation (current status: %s)", e.Status)
}

// Kind returns the fault's taxonomy code.
func (e *InvalidStateError) Kind() types.ErrorCode { return types.CodeInvalidState }

// InvalidCVDataError indicates the job carries no usable parsed CV data.
type InvalidCVDataError struct {
	Reason string
}

func (e *InvalidCVDataError) Error() string {
	if e.Reason == "" {
		return "CV data is missing or invalid"
	}
	return fmt.Sprintf("CV data is missing or invalid: %s", e.Reason)
}

// Kind returns the fault's taxonomy code.
func (e *InvalidCVDataError) Kind() types.ErrorCode { return types.CodeInvalidCVData }
