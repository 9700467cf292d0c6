package types

import (
	"fmt"
	"time"
)

// PortalStatus is the lifecycle status of one portal generation run.
// COMPLETED and FAILED are terminal; no transition leaves them.
type PortalStatus string

const (
	PortalStatusGenerating  PortalStatus = "GENERATING"
	PortalStatusBuildingRAG PortalStatus = "BUILDING_RAG"
	PortalStatusDeploying   PortalStatus = "DEPLOYING"
	PortalStatusCompleted   PortalStatus = "COMPLETED"
	PortalStatusFailed      PortalStatus = "FAILED"
)

// Terminal reports whether the status is a terminal state.
func (s PortalStatus) Terminal() bool {
	return s == PortalStatusCompleted || s == PortalStatusFailed
}

// portalTransitions is the explicit transition table for portal statuses.
// A status not present as a key (terminal states) allows no transitions.
var portalTransitions = map[PortalStatus][]PortalStatus{
	PortalStatusGenerating:  {PortalStatusBuildingRAG, PortalStatusFailed},
	PortalStatusBuildingRAG: {PortalStatusDeploying, PortalStatusFailed},
	PortalStatusDeploying:   {PortalStatusCompleted, PortalStatusFailed},
}

// CanTransition reports whether a portal may move from one status to another.
// Staying in the same non-terminal status (a step update within a phase) is
// always allowed.
func CanTransition(from, to PortalStatus) bool {
	if from == to {
		return !from.Terminal()
	}
	for _, next := range portalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// GenerationStep is one named unit of work in the fixed generation sequence.
type GenerationStep string

const (
	StepValidateInput       GenerationStep = "VALIDATE_INPUT"
	StepExtractCVData       GenerationStep = "EXTRACT_CV_DATA"
	StepGenerateTemplate    GenerationStep = "GENERATE_TEMPLATE"
	StepCustomizeDesign     GenerationStep = "CUSTOMIZE_DESIGN"
	StepCreateEmbeddings    GenerationStep = "CREATE_EMBEDDINGS"
	StepSetupVectorDB       GenerationStep = "SETUP_VECTOR_DB"
	StepDeployToHuggingFace GenerationStep = "DEPLOY_TO_HUGGINGFACE"
	StepConfigureURLs       GenerationStep = "CONFIGURE_URLS"
	StepUpdateCVDocument    GenerationStep = "UPDATE_CV_DOCUMENT"
	StepGenerateQRCodes     GenerationStep = "GENERATE_QR_CODES"
	StepFinalizePortal      GenerationStep = "FINALIZE_PORTAL"
)

// AllSteps is the full generation sequence in execution order. A successful
// invocation completes exactly these steps, in this order.
var AllSteps = []GenerationStep{
	StepValidateInput,
	StepExtractCVData,
	StepGenerateTemplate,
	StepCustomizeDesign,
	StepCreateEmbeddings,
	StepSetupVectorDB,
	StepDeployToHuggingFace,
	StepConfigureURLs,
	StepUpdateCVDocument,
	StepGenerateQRCodes,
	StepFinalizePortal,
}

// APIUrls holds the API endpoints exposed by a deployed portal.
type APIUrls struct {
	Chat      string `json:"chat"`
	Contact   string `json:"contact"`
	Analytics string `json:"analytics"`
}

// PortalUrls is the full set of public and API URLs for a deployed portal.
// All fields are derived from the same Portal base.
type PortalUrls struct {
	Portal   string  `json:"portal"`
	Chat     string  `json:"chat"`
	Contact  string  `json:"contact"`
	Download string  `json:"download"`
	QRMenu   string  `json:"qrMenu"`
	API      APIUrls `json:"api"`
}

// Portal is the document describing one generation run and its artifact.
type Portal struct {
	ID             string           `json:"id"`
	JobID          string           `json:"jobId"`
	UserID         string           `json:"userId"`
	Status         PortalStatus     `json:"status"`
	CurrentStep    GenerationStep   `json:"currentStep,omitempty"`
	StepsCompleted []GenerationStep `json:"stepsCompleted,omitempty"`
	Urls           *PortalUrls      `json:"urls,omitempty"`
	Error          *PortalError     `json:"error,omitempty"`
	CreatedAt      time.Time        `json:"createdAt,omitempty"`
	UpdatedAt      time.Time        `json:"updatedAt,omitempty"`
}

// NewPortalID builds the canonical portal document ID for a job at a point
// in time.
func NewPortalID(jobID string, at time.Time) string {
	return fmt.Sprintf("portal_%s_%d", jobID, at.UnixMilli())
}

// NewErrorPortalID builds the portal ID used for failure-path records created
// before any portal was allocated for the invocation.
func NewErrorPortalID(jobID string, at time.Time) string {
	return fmt.Sprintf("portal_%s_error_%d", jobID, at.UnixMilli())
}
