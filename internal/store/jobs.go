package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/cv-portal/internal/types"
)

// JobStore is a typed client over the CV job document collection. The portal
// pipeline reads job state and writes only the portal-linkage fields.
type JobStore struct {
	docs DocumentStore
}

// NewJobStore wraps a document store with typed job accessors.
func NewJobStore(docs DocumentStore) *JobStore {
	return &JobStore{docs: docs}
}

// Get returns the job with the given ID, or ErrNotFound.
func (s *JobStore) Get(ctx context.Context, jobID string) (*types.PortalJob, error) {
	doc, err := s.docs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	var job types.PortalJob
	if err := decodeDoc(doc, &job); err != nil {
		return nil, fmt.Errorf("job %s: %w", jobID, err)
	}
	return &job, nil
}

// Put writes a full job document. Used for seeding local/test data; the
// upstream CV pipeline owns job creation in production.
func (s *JobStore) Put(ctx context.Context, job *types.PortalJob) error {
	doc, err := encodeDoc(job)
	if err != nil {
		return fmt.Errorf("job %s: %w", job.ID, err)
	}
	return s.docs.Merge(ctx, job.ID, doc)
}

// SetGenerationStarted records the newly allocated portal on the job and
// marks generation as in flight.
func (s *JobStore) SetGenerationStarted(ctx context.Context, jobID, portalID string) error {
	return s.docs.Merge(ctx, jobID, map[string]any{
		"portalGenerationStatus": string(types.GenerationStatusGenerating),
		"portalId":               portalID,
		"updatedAt":              time.Now().UTC(),
	})
}

// AttachPortalUrls denormalizes the portal's final URLs onto the job record
// so the job's own consumers can read them without a second lookup.
func (s *JobStore) AttachPortalUrls(ctx context.Context, jobID, portalID string, urls *types.PortalUrls) error {
	urlsDoc, err := encodeDoc(urls)
	if err != nil {
		return fmt.Errorf("job %s: %w", jobID, err)
	}
	return s.docs.Merge(ctx, jobID, map[string]any{
		"portalId":   portalID,
		"portalUrls": urlsDoc,
		"updatedAt":  time.Now().UTC(),
	})
}

// SetGenerationCompleted writes the terminal success projection to the job.
func (s *JobStore) SetGenerationCompleted(ctx context.Context, jobID, portalID string, urls *types.PortalUrls) error {
	urlsDoc, err := encodeDoc(urls)
	if err != nil {
		return fmt.Errorf("job %s: %w", jobID, err)
	}
	return s.docs.Merge(ctx, jobID, map[string]any{
		"portalGenerationStatus": string(types.GenerationStatusCompleted),
		"portalId":               portalID,
		"portalUrls":             urlsDoc,
		"updatedAt":              time.Now().UTC(),
	})
}

// SetGenerationFailed writes the terminal failure projection to the job.
// The message is the sanitized user-facing one, not raw fault text.
func (s *JobStore) SetGenerationFailed(ctx context.Context, jobID, userMessage string) error {
	return s.docs.Merge(ctx, jobID, map[string]any{
		"portalGenerationStatus": string(types.GenerationStatusFailed),
		"portalError":            userMessage,
		"updatedAt":              time.Now().UTC(),
	})
}
