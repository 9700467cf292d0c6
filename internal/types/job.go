// Package types provides type definitions for the portal generation system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// JobStatus is the lifecycle status of a CV job, owned by the upstream CV
// processing pipeline. The portal pipeline only reads it.
type JobStatus string

const (
	JobStatusCreated    JobStatus = "created"
	JobStatusProcessing JobStatus = "processing"
	JobStatusAnalyzed   JobStatus = "analyzed"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// GenerationStatus is the portal generation status denormalized onto the job
// record. Written exclusively by the portal pipeline.
type GenerationStatus string

const (
	GenerationStatusGenerating GenerationStatus = "generating"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// PersonalInfo holds the contact block of a parsed CV.
type PersonalInfo struct {
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	Links    []string `json:"links,omitempty"`
}

// ExperienceEntry is a single position in the parsed CV.
type ExperienceEntry struct {
	Company    string   `json:"company,omitempty"`
	Title      string   `json:"title,omitempty"`
	Period     string   `json:"period,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// EducationEntry is a single degree or program in the parsed CV.
type EducationEntry struct {
	Institution string `json:"institution,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Period      string `json:"period,omitempty"`
}

// ParsedCV is the structured CV content produced by the upstream CV pipeline.
// Read-only to the portal pipeline.
type ParsedCV struct {
	PersonalInfo *PersonalInfo     `json:"personalInfo,omitempty"`
	Summary      string            `json:"summary,omitempty"`
	Skills       []string          `json:"skills,omitempty"`
	Experience   []ExperienceEntry `json:"experience,omitempty"`
	Education    []EducationEntry  `json:"education,omitempty"`
	Languages    []string          `json:"languages,omitempty"`
}

// PortalJob is the CV job document as seen by the portal pipeline.
// Field names match the document-store wire format (camelCase).
type PortalJob struct {
	ID                     string           `json:"id"`
	UserID                 string           `json:"userId"`
	Status                 JobStatus        `json:"status"`
	ParsedData             *ParsedCV        `json:"parsedData,omitempty"`
	PortalGenerationStatus GenerationStatus `json:"portalGenerationStatus,omitempty"`
	PortalID               string           `json:"portalId,omitempty"`
	PortalUrls             *PortalUrls      `json:"portalUrls,omitempty"`
	PortalError            string           `json:"portalError,omitempty"`
	CreatedAt              time.Time        `json:"createdAt,omitempty"`
	UpdatedAt              time.Time        `json:"updatedAt,omitempty"`
}

// ReadyForPortal reports whether the upstream CV pipeline has advanced the job
// far enough for portal generation to start.
func (j *PortalJob) ReadyForPortal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusAnalyzed
}

// DisplayName returns the CV owner's name from the parsed data, or "" when
// the CV carries none.
func (j *PortalJob) DisplayName() string {
	if j.ParsedData != nil && j.ParsedData.PersonalInfo != nil {
		return j.ParsedData.PersonalInfo.Name
	}
	return ""
}
