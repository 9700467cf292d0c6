package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/cv-portal/internal/types"
)

// IllegalTransitionError indicates a portal status merge that the transition
// table forbids, such as any write after a terminal state.
type IllegalTransitionError struct {
	PortalID string
	From     types.PortalStatus
	To       types.PortalStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("portal %s: illegal status transition %s -> %s", e.PortalID, e.From, e.To)
}

// PortalStore is a typed client over the portal document collection. Status
// merges are validated against the transition table, so a terminal portal
// can never be moved again.
type PortalStore struct {
	docs DocumentStore
}

// NewPortalStore wraps a document store with typed portal accessors.
func NewPortalStore(docs DocumentStore) *PortalStore {
	return &PortalStore{docs: docs}
}

// Get returns the portal with the given ID, or ErrNotFound.
func (s *PortalStore) Get(ctx context.Context, portalID string) (*types.Portal, error) {
	doc, err := s.docs.Get(ctx, portalID)
	if err != nil {
		return nil, err
	}
	var portal types.Portal
	if err := decodeDoc(doc, &portal); err != nil {
		return nil, fmt.Errorf("portal %s: %w", portalID, err)
	}
	return &portal, nil
}

// Create writes the initial portal record for a new invocation.
func (s *PortalStore) Create(ctx context.Context, portal *types.Portal) error {
	doc, err := encodeDoc(portal)
	if err != nil {
		return fmt.Errorf("portal %s: %w", portal.ID, err)
	}
	return s.docs.Merge(ctx, portal.ID, doc)
}

// MarkStep records the stage about to run: status, currentStep and a fresh
// updatedAt. The merge is rejected when the transition table forbids moving
// from the portal's current status.
func (s *PortalStore) MarkStep(ctx context.Context, portalID string, status types.PortalStatus, step types.GenerationStep) error {
	current, err := s.Get(ctx, portalID)
	if err != nil {
		return err
	}
	if !types.CanTransition(current.Status, status) {
		return &IllegalTransitionError{PortalID: portalID, From: current.Status, To: status}
	}
	return s.docs.Merge(ctx, portalID, map[string]any{
		"status":      string(status),
		"currentStep": string(step),
		"updatedAt":   time.Now().UTC(),
	})
}

// Complete moves the portal to its terminal COMPLETED state with the final
// URLs and the full step history.
func (s *PortalStore) Complete(ctx context.Context, portalID string, urls *types.PortalUrls, steps []types.GenerationStep) error {
	current, err := s.Get(ctx, portalID)
	if err != nil {
		return err
	}
	if !types.CanTransition(current.Status, types.PortalStatusCompleted) {
		return &IllegalTransitionError{PortalID: portalID, From: current.Status, To: types.PortalStatusCompleted}
	}
	urlsDoc, err := encodeDoc(urls)
	if err != nil {
		return fmt.Errorf("portal %s: %w", portalID, err)
	}
	return s.docs.Merge(ctx, portalID, map[string]any{
		"status":         string(types.PortalStatusCompleted),
		"currentStep":    "",
		"stepsCompleted": stepStrings(steps),
		"urls":           urlsDoc,
		"updatedAt":      time.Now().UTC(),
	})
}

// Fail moves the portal to its terminal FAILED state with the structured
// error record. When no portal document exists yet (a precondition fault
// before allocation) the merge creates a fresh failure record under the
// synthesized error ID. An already-terminal portal is left untouched.
func (s *PortalStore) Fail(ctx context.Context, portalID, jobID, userID string, perr *types.PortalError) error {
	current, err := s.Get(ctx, portalID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if current != nil && current.Status.Terminal() {
		return &IllegalTransitionError{PortalID: portalID, From: current.Status, To: types.PortalStatusFailed}
	}

	errDoc, err := encodeDoc(perr)
	if err != nil {
		return fmt.Errorf("portal %s: %w", portalID, err)
	}
	fields := map[string]any{
		"status":      string(types.PortalStatusFailed),
		"currentStep": "",
		"error":       errDoc,
		"updatedAt":   time.Now().UTC(),
	}
	if current == nil {
		// Fresh failure record: fill identity fields the create path
		// never wrote.
		fields["id"] = portalID
		fields["jobId"] = jobID
		fields["userId"] = userID
		fields["createdAt"] = time.Now().UTC()
	}
	if perr.Context != nil {
		fields["stepsCompleted"] = stepStrings(perr.Context.StepsCompleted)
	}
	return s.docs.Merge(ctx, portalID, fields)
}

func stepStrings(steps []types.GenerationStep) []any {
	out := make([]any, len(steps))
	for i, s := range steps {
		out[i] = string(s)
	}
	return out
}
