package portal

import (
	"errors"
	"strings"

	"github.com/jonathan/cv-portal/internal/types"
)

// Classification is the stable tuple a fault maps to. Message is the
// sanitized user-facing text; the raw fault text travels separately in
// PortalError.Details.
type Classification struct {
	Code        types.ErrorCode
	Category    types.ErrorCategory
	Recoverable bool
	Message     string
}

// User-facing messages for validation-class faults.
const (
	msgJobNotFound   = "Your CV job could not be found. Please complete CV processing first."
	msgUnauthorized  = "You are not authorized to access this CV."
	msgNotCompleted  = "CV processing must be completed before generating a portal."
	msgInvalidCVData = "CV data is missing or invalid. Please re-run CV processing."
)

// validation builds the non-recoverable validation classification. Every
// validation-class fault requires caller-side correction, so recoverable is
// always false for it; all other codes are treated as transient.
func validation(msg string) Classification {
	return Classification{
		Code:        types.CodeInvalidCVData,
		Category:    types.CategoryValidation,
		Recoverable: false,
		Message:     msg,
	}
}

func external(code types.ErrorCode, msg string) Classification {
	return Classification{
		Code:        code,
		Category:    types.CategoryExternalAPI,
		Recoverable: true,
		Message:     msg,
	}
}

// messageRule is one ordered substring rule for untyped faults.
type messageRule struct {
	match func(string) bool
	class Classification
}

// messageRules classify faults from external services by their message text,
// first match wins. Typed faults never reach these rules.
var messageRules = []messageRule{
	{
		match: func(m string) bool { return strings.Contains(m, "Job") && strings.Contains(m, "not found") },
		class: validation(msgJobNotFound),
	},
	{
		match: func(m string) bool { return strings.Contains(m, "Unauthorized") },
		class: validation(msgUnauthorized),
	},
	{
		match: func(m string) bool { return strings.Contains(m, "must be completed") },
		class: validation(msgNotCompleted),
	},
	{
		match: func(m string) bool {
			return strings.Contains(m, "credit balance is too low") || strings.Contains(m, "billing issues")
		},
		class: external(types.CodeHuggingFaceAPIError,
			"The portal service is temporarily unavailable due to billing. Please try again later."),
	},
	{
		match: func(m string) bool { return strings.Contains(m, "Authentication failed") },
		class: external(types.CodeHuggingFaceAPIError,
			"Deployment service authentication failed. Please try again later."),
	},
	{
		match: func(m string) bool { return strings.Contains(m, "overloaded") || strings.Contains(m, "429") },
		class: external(types.CodeDeploymentFailed,
			"The service is overloaded. Please try again shortly."),
	},
}

// Classify maps a raised fault to its stable classification. Typed pipeline
// faults classify by tag; anything else falls through the ordered message
// rules, and an unmatched fault is a recoverable system error whose original
// message is surfaced verbatim.
func Classify(err error) Classification {
	var (
		missingParam *MissingParameterError
		notFound     *JobNotFoundError
		unauthorized *UnauthorizedError
		invalidState *InvalidStateError
		invalidData  *InvalidCVDataError
	)
	switch {
	case errors.As(err, &missingParam), errors.As(err, &notFound):
		return validation(msgJobNotFound)
	case errors.As(err, &unauthorized):
		return validation(msgUnauthorized)
	case errors.As(err, &invalidState):
		return validation(msgNotCompleted)
	case errors.As(err, &invalidData):
		return validation(msgInvalidCVData)
	}

	msg := err.Error()
	for _, rule := range messageRules {
		if rule.match(msg) {
			return rule.class
		}
	}

	return Classification{
		Code:        types.CodeInternalError,
		Category:    types.CategorySystem,
		Recoverable: true,
		Message:     msg,
	}
}
