// Package server provides the HTTP REST API for the portal agent.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-portal/internal/portal"
	"github.com/jonathan/cv-portal/internal/store"
	"github.com/jonathan/cv-portal/internal/types"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *portal.MissingParameterError, *ErrValidation, *portal.InvalidStateError, *portal.InvalidCVDataError:
		return http.StatusBadRequest
	case *portal.JobNotFoundError:
		return http.StatusNotFound
	case *portal.UnauthorizedError:
		return http.StatusForbidden
	}
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// resultStatus maps a failed generation result to the HTTP status of the
// response carrying it. Successful results are always 200.
func resultStatus(result *types.GenerationResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Error.Code {
	case types.CodeInvalidCVData:
		return http.StatusBadRequest
	case types.CodeHuggingFaceAPIError, types.CodeDeploymentFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
