// Package store provides document storage for portal pipeline state.
//
// Both the job and portal collections share the same contract: get a document
// by ID, or merge a partial set of fields into it (upsert with field-level
// merge, so concurrent writers of disjoint fields do not conflict).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the minimal key-value document contract the pipeline
// depends on.
type DocumentStore interface {
	// Get returns the document with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (map[string]any, error)
	// Merge upserts the given fields into the document, merging nested maps
	// field by field. Fields not named in the patch are left untouched.
	Merge(ctx context.Context, id string, fields map[string]any) error
}

// deepMerge merges src into dst recursively. Nested maps merge field by
// field; any other value (including slices) replaces the destination value
// wholesale. dst is modified in place and returned.
func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if srcMap, ok := v.(map[string]any); ok {
			if dstMap, ok := dst[k].(map[string]any); ok {
				dst[k] = deepMerge(dstMap, srcMap)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

// encodeDoc converts a typed value into a document map via its JSON form.
func encodeDoc(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return doc, nil
}

// decodeDoc converts a document map back into a typed value.
func decodeDoc(doc map[string]any, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
