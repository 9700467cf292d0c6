package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cv-portal/internal/generation"
	"github.com/jonathan/cv-portal/internal/schemas"
	"github.com/jonathan/cv-portal/internal/store"
	"github.com/jonathan/cv-portal/internal/types"
	"github.com/jonathan/cv-portal/internal/urls"
)

// UserDirectory resolves a user's profile display name. Used as the fallback
// when the parsed CV carries no name.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Request is one portal generation invocation.
type Request struct {
	JobID        string
	UserID       string
	PortalConfig map[string]any
}

// Generator drives a CV job through the full generation sequence and
// guarantees a terminal, mutually consistent result in both stores.
type Generator struct {
	jobs     *store.JobStore
	portals  *store.PortalStore
	services generation.Services
	users    UserDirectory
	log      *zap.SugaredLogger
}

// Option configures a Generator.
type Option func(*Generator)

// WithUserDirectory supplies the profile-name fallback source.
func WithUserDirectory(users UserDirectory) Option {
	return func(g *Generator) { g.users = users }
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(g *Generator) { g.log = log }
}

// NewGenerator creates a portal generator over the two document stores and
// the external generation services.
func NewGenerator(jobs *store.JobStore, portals *store.PortalStore, services generation.Services, opts ...Option) *Generator {
	g := &Generator{
		jobs:     jobs,
		portals:  portals,
		services: services,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// runState accumulates one invocation's progress and intermediate artifacts.
type runState struct {
	req       Request
	startedAt time.Time

	job      *types.PortalJob
	portalID string
	steps    []types.GenerationStep
	warnings []string

	content    *generation.PortalContent
	bundle     *generation.TemplateBundle
	embeddings *generation.EmbeddingSet
	index      *generation.VectorIndex
	deployment *generation.Deployment
	urls       *types.PortalUrls
	qrCodes    map[string][]byte
	assets     *generation.AssetBundle
}

// completeStep appends a step to the invocation's history. Steps never
// repeat within one invocation.
func (r *runState) completeStep(step types.GenerationStep) {
	r.steps = append(r.steps, step)
}

func (r *runState) elapsedMs() int64 {
	return time.Since(r.startedAt).Milliseconds()
}

// Generate runs the full pipeline for one job. It never returns an error:
// every fault is caught at this boundary, classified, persisted to both
// stores and converted into a failure result.
func (g *Generator) Generate(ctx context.Context, req Request) *types.GenerationResult {
	run := &runState{req: req, startedAt: time.Now()}

	g.log.Infow("portal generation started", "jobId", req.JobID, "userId", req.UserID)

	if err := g.run(ctx, run); err != nil {
		return g.fail(ctx, run, err)
	}
	return g.succeed(ctx, run)
}

// run executes preconditions, portal allocation and the stage sequence.
// Any returned error aborts the invocation and is handled by fail.
func (g *Generator) run(ctx context.Context, run *runState) error {
	// VALIDATE_INPUT: ordered precondition checks, each with its own fault.
	if run.req.JobID == "" {
		return &MissingParameterError{Param: "jobId"}
	}

	job, err := g.jobs.Get(ctx, run.req.JobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &JobNotFoundError{JobID: run.req.JobID}
		}
		return fmt.Errorf("failed to load job %s: %w", run.req.JobID, err)
	}
	if job.UserID != run.req.UserID {
		return &UnauthorizedError{JobID: run.req.JobID, UserID: run.req.UserID}
	}
	if !job.ReadyForPortal() {
		return &InvalidStateError{Status: job.Status}
	}
	if job.ParsedData == nil {
		return &InvalidCVDataError{Reason: "job has no parsed CV data"}
	}
	run.job = job
	run.completeStep(types.StepValidateInput)

	// Every invocation gets a brand-new portal; repeated invocations for the
	// same job accumulate portal records, with the job pointing at the most
	// recent one.
	now := time.Now()
	run.portalID = types.NewPortalID(job.ID, now)
	portal := &types.Portal{
		ID:             run.portalID,
		JobID:          job.ID,
		UserID:         job.UserID,
		Status:         types.PortalStatusGenerating,
		CurrentStep:    types.StepValidateInput,
		StepsCompleted: run.steps,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
	if err := g.portals.Create(ctx, portal); err != nil {
		return err
	}
	if err := g.jobs.SetGenerationStarted(ctx, job.ID, run.portalID); err != nil {
		return err
	}

	type stagePlan struct {
		status types.PortalStatus
		step   types.GenerationStep
		work   func(context.Context, *runState) error
	}
	plan := []stagePlan{
		{types.PortalStatusGenerating, types.StepExtractCVData, g.extractCVData},
		{types.PortalStatusGenerating, types.StepGenerateTemplate, g.generateTemplate},
		{types.PortalStatusGenerating, types.StepCustomizeDesign, g.customizeDesign},
		{types.PortalStatusBuildingRAG, types.StepCreateEmbeddings, g.createEmbeddings},
		{types.PortalStatusBuildingRAG, types.StepSetupVectorDB, g.setupVectorDB},
		{types.PortalStatusDeploying, types.StepDeployToHuggingFace, g.deploy},
		{types.PortalStatusDeploying, types.StepConfigureURLs, g.configureURLs},
		{types.PortalStatusDeploying, types.StepUpdateCVDocument, g.updateCVDocument},
		{types.PortalStatusDeploying, types.StepGenerateQRCodes, g.generateQRCodes},
		{types.PortalStatusDeploying, types.StepFinalizePortal, g.finalize},
	}

	for _, stage := range plan {
		// Progress is persisted before the work starts, so an interrupted
		// run is observable from the portal record alone.
		if err := g.portals.MarkStep(ctx, run.portalID, stage.status, stage.step); err != nil {
			return err
		}
		g.log.Debugw("portal stage started", "portalId", run.portalID, "step", stage.step)
		if err := stage.work(ctx, run); err != nil {
			return err
		}
		run.completeStep(stage.step)
	}
	return nil
}

func (g *Generator) extractCVData(ctx context.Context, run *runState) error {
	for _, violation := range schemas.ValidateParsedCV(run.job.ParsedData) {
		run.warnings = append(run.warnings, "parsedData: "+violation)
	}

	content, err := g.services.Content.Extract(ctx, run.job.ParsedData)
	if err != nil {
		return err
	}
	run.content = content
	return nil
}

func (g *Generator) generateTemplate(ctx context.Context, run *runState) error {
	bundle, err := g.services.Template.Generate(ctx, run.content)
	if err != nil {
		return err
	}
	run.bundle = bundle
	return nil
}

func (g *Generator) customizeDesign(ctx context.Context, run *runState) error {
	bundle, err := g.services.Design.Customize(ctx, run.bundle, run.req.PortalConfig)
	if err != nil {
		return err
	}
	run.bundle = bundle
	return nil
}

func (g *Generator) createEmbeddings(ctx context.Context, run *runState) error {
	set, err := g.services.Embeddings.Build(ctx, run.content)
	if err != nil {
		return err
	}
	run.embeddings = set
	return nil
}

func (g *Generator) setupVectorDB(ctx context.Context, run *runState) error {
	index, err := g.services.VectorIndex.Setup(ctx, run.embeddings)
	if err != nil {
		return err
	}
	run.index = index
	return nil
}

func (g *Generator) deploy(ctx context.Context, run *runState) error {
	deployment, err := g.services.Deployer.Deploy(ctx, generation.DeployRequest{
		PortalID: run.portalID,
		JobID:    run.job.ID,
		HTML:     run.bundle.HTML,
		Chunks:   len(run.embeddings.Chunks),
	})
	if err != nil {
		return err
	}
	run.deployment = deployment
	return nil
}

func (g *Generator) configureURLs(ctx context.Context, run *runState) error {
	run.urls = urls.BuildPortalURLs(g.resolveDisplayName(ctx, run))
	return nil
}

func (g *Generator) updateCVDocument(ctx context.Context, run *runState) error {
	return g.jobs.AttachPortalUrls(ctx, run.job.ID, run.portalID, run.urls)
}

func (g *Generator) generateQRCodes(ctx context.Context, run *runState) error {
	codes, err := g.services.QR.Generate(ctx, run.urls)
	if err != nil {
		return err
	}
	run.qrCodes = codes
	return nil
}

// finalize writes the terminal success state to both stores. The portal is
// written first and is authoritative; the job projection follows.
func (g *Generator) finalize(ctx context.Context, run *runState) error {
	assets, err := g.services.Assets.Build(ctx, run.bundle, run.qrCodes)
	if err != nil {
		return err
	}
	run.assets = assets

	finalSteps := make([]types.GenerationStep, len(run.steps), len(run.steps)+1)
	copy(finalSteps, run.steps)
	finalSteps = append(finalSteps, types.StepFinalizePortal)

	if err := g.portals.Complete(ctx, run.portalID, run.urls, finalSteps); err != nil {
		return err
	}
	return g.jobs.SetGenerationCompleted(ctx, run.job.ID, run.portalID, run.urls)
}

// resolveDisplayName picks the portal's display name: the CV owner's name,
// falling back to the authenticated user's profile name, falling back to
// "user" (via the slug fallback).
func (g *Generator) resolveDisplayName(ctx context.Context, run *runState) string {
	if name := run.job.DisplayName(); name != "" {
		return name
	}
	if g.users != nil {
		if name, err := g.users.DisplayName(ctx, run.req.UserID); err == nil && name != "" {
			return name
		}
	}
	return ""
}

// succeed assembles the success result from the persisted portal record.
func (g *Generator) succeed(ctx context.Context, run *runState) *types.GenerationResult {
	finishedAt := time.Now()
	elapsed := run.elapsedMs()

	portal, err := g.portals.Get(ctx, run.portalID)
	if err != nil {
		// The terminal write already landed; fall back to an in-memory view.
		g.log.Warnw("failed to reload completed portal", "portalId", run.portalID, "error", err)
		portal = &types.Portal{
			ID:             run.portalID,
			JobID:          run.job.ID,
			UserID:         run.job.UserID,
			Status:         types.PortalStatusCompleted,
			StepsCompleted: run.steps,
			Urls:           run.urls,
		}
	}

	g.log.Infow("portal generation completed",
		"jobId", run.job.ID, "portalId", run.portalID, "elapsedMs", elapsed)

	return &types.GenerationResult{
		Success: true,
		Portal:  portal,
		Urls:    run.urls,
		Metadata: &types.GenerationMetadata{
			JobID:      run.job.ID,
			UserID:     run.job.UserID,
			PortalID:   run.portalID,
			StartedAt:  run.startedAt.UTC(),
			FinishedAt: finishedAt.UTC(),
		},
		ProcessingTimeMs: elapsed,
		StepsCompleted:   run.steps,
		Warnings:         run.warnings,
	}
}

// fail classifies the fault, persists the terminal failure to both stores
// and builds the failure result. Persistence errors on this path are logged,
// never raised: the caller always gets a structured result.
func (g *Generator) fail(ctx context.Context, run *runState, cause error) *types.GenerationResult {
	cls := Classify(cause)
	now := time.Now()
	elapsed := run.elapsedMs()

	perr := &types.PortalError{
		Code:    cls.Code,
		Message: cls.Message,
		Details: cause.Error(),
		Context: &types.ErrorContext{
			StepsCompleted:   run.steps,
			ProcessingTimeMs: elapsed,
		},
		Timestamp:   now.UTC(),
		Recoverable: cls.Recoverable,
		Category:    cls.Category,
	}

	portalID := g.resolveErrorPortalID(ctx, run, now)
	if err := g.portals.Fail(ctx, portalID, run.req.JobID, run.req.UserID, perr); err != nil {
		var illegal *store.IllegalTransitionError
		if errors.As(err, &illegal) {
			// The resolved portal is already terminal (a previous run's
			// record); report under a fresh error ID instead.
			portalID = types.NewErrorPortalID(run.req.JobID, now)
			err = g.portals.Fail(ctx, portalID, run.req.JobID, run.req.UserID, perr)
		}
		if err != nil {
			g.log.Errorw("failed to persist portal failure", "portalId", portalID, "error", err)
		}
	}
	if run.req.JobID != "" {
		if err := g.jobs.SetGenerationFailed(ctx, run.req.JobID, cls.Message); err != nil {
			g.log.Errorw("failed to persist job failure", "jobId", run.req.JobID, "error", err)
		}
	}

	g.log.Warnw("portal generation failed",
		"jobId", run.req.JobID, "portalId", portalID,
		"code", cls.Code, "recoverable", cls.Recoverable, "cause", cause)

	return &types.GenerationResult{
		Success: false,
		Error:   perr,
		Metadata: &types.GenerationMetadata{
			JobID:      run.req.JobID,
			UserID:     run.req.UserID,
			PortalID:   portalID,
			StartedAt:  run.startedAt.UTC(),
			FinishedAt: now.UTC(),
		},
		ProcessingTimeMs: elapsed,
		StepsCompleted:   run.steps,
	}
}

// resolveErrorPortalID picks the portal to record a failure on: the one
// allocated this invocation, else the job's most recent portal, else a
// synthesized error ID.
func (g *Generator) resolveErrorPortalID(ctx context.Context, run *runState, now time.Time) string {
	if run.portalID != "" {
		return run.portalID
	}
	if run.req.JobID != "" {
		if job, err := g.jobs.Get(ctx, run.req.JobID); err == nil && job.PortalID != "" {
			return job.PortalID
		}
	}
	return types.NewErrorPortalID(run.req.JobID, now)
}
