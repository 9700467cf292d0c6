package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-portal/internal/types"
)

func seedTestJob(t *testing.T, jobs *JobStore) {
	t.Helper()
	require.NoError(t, jobs.Put(context.Background(), &types.PortalJob{
		ID:     "job1",
		UserID: "user1",
		Status: types.JobStatusCompleted,
		ParsedData: &types.ParsedCV{
			PersonalInfo: &types.PersonalInfo{Name: "Ada Lovelace"},
			Skills:       []string{"Go"},
		},
		CreatedAt: time.Now().UTC(),
	}))
}

func TestJobStoreRoundTrip(t *testing.T) {
	jobs := NewJobStore(NewMemoryStore())
	seedTestJob(t, jobs)

	job, err := jobs.Get(context.Background(), "job1")
	require.NoError(t, err)
	assert.Equal(t, "user1", job.UserID)
	assert.Equal(t, types.JobStatusCompleted, job.Status)
	require.NotNil(t, job.ParsedData)
	assert.Equal(t, "Ada Lovelace", job.ParsedData.PersonalInfo.Name)
}

func TestJobStoreGenerationLifecycle(t *testing.T) {
	jobs := NewJobStore(NewMemoryStore())
	ctx := context.Background()
	seedTestJob(t, jobs)

	require.NoError(t, jobs.SetGenerationStarted(ctx, "job1", "p1"))
	job, err := jobs.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, types.GenerationStatusGenerating, job.PortalGenerationStatus)
	assert.Equal(t, "p1", job.PortalID)

	urls := &types.PortalUrls{Portal: "https://ada-lovelace-cv-portal.hf.space"}
	require.NoError(t, jobs.AttachPortalUrls(ctx, "job1", "p1", urls))
	require.NoError(t, jobs.SetGenerationCompleted(ctx, "job1", "p1", urls))

	job, err = jobs.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, types.GenerationStatusCompleted, job.PortalGenerationStatus)
	require.NotNil(t, job.PortalUrls)
	assert.Equal(t, urls.Portal, job.PortalUrls.Portal)

	// Parsed CV data is untouched by generation writes.
	require.NotNil(t, job.ParsedData)
	assert.Equal(t, "Ada Lovelace", job.ParsedData.PersonalInfo.Name)
}

func TestJobStoreSetGenerationFailed(t *testing.T) {
	jobs := NewJobStore(NewMemoryStore())
	ctx := context.Background()
	seedTestJob(t, jobs)

	require.NoError(t, jobs.SetGenerationFailed(ctx, "job1", "CV data is missing or invalid. Please re-run CV processing."))

	job, err := jobs.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, types.GenerationStatusFailed, job.PortalGenerationStatus)
	assert.Equal(t, "CV data is missing or invalid. Please re-run CV processing.", job.PortalError)
	assert.Equal(t, types.JobStatusCompleted, job.Status, "upstream job status is never touched")
}
