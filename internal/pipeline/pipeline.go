// Package pipeline drives one receipt submission end to end:
// validate → resolve identity → upload → extract. It owns the
// single-run-in-flight guard and the failure classification the UI
// layers branch on.
package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
	"github.com/AnkitDash-code/Expensync/internal/session"
)

// State is the position of a run in the submission state machine.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateUploading
	StateExtracting
	StateSucceeded
	StateFailedValidation
	StateFailedUpload
	StateFailedExtraction
	StateFailedAuth
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateUploading:
		return "uploading"
	case StateExtracting:
		return "extracting"
	case StateSucceeded:
		return "succeeded"
	case StateFailedValidation:
		return "failed_validation"
	case StateFailedUpload:
		return "failed_upload"
	case StateFailedExtraction:
		return "failed_extraction"
	case StateFailedAuth:
		return "failed_auth"
	}
	return "unknown"
}

// Terminal reports whether the state ends a run. Everything except
// Idle and the three in-flight states is terminal.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailedValidation, StateFailedUpload,
		StateFailedExtraction, StateFailedAuth:
		return true
	}
	return false
}

// IdentityResolver maps an email to the durable user id.
type IdentityResolver interface {
	ResolveUserID(ctx context.Context, email string) (string, error)
}

// Uploader stores a local artifact and returns its reference. Kept as
// a single-method contract so a resumable implementation can replace
// the multipart one without touching the state machine.
type Uploader interface {
	Upload(ctx context.Context, artifact models.UploadArtifact) (models.StoredReference, error)
}

// Extractor submits a stored reference to the extraction service and
// returns the created expense id.
type Extractor interface {
	Extract(ctx context.Context, ref models.StoredReference, userID, tripID string) (string, error)
}

// Run is one submission attempt. Created by Submit, terminal when it
// returns.
type Run struct {
	ID        string
	TripID    string
	State     State
	Reference models.StoredReference
	ExpenseID string
	Err       error

	// a 401 clears the session once per occurrence, even when two
	// steps race into it
	authCleared bool
}

// Orchestrator sequences the submission steps. All collaborators are
// injected so tests run against fakes.
type Orchestrator struct {
	store     session.Store
	identity  IdentityResolver
	uploader  Uploader
	extractor Extractor

	mu     sync.Mutex
	active *Run
}

func New(store session.Store, identity IdentityResolver, uploader Uploader, extractor Extractor) *Orchestrator {
	return &Orchestrator{
		store:     store,
		identity:  identity,
		uploader:  uploader,
		extractor: extractor,
	}
}

// Busy reports whether a run is currently in a non-terminal state.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active != nil
}

// Submit runs one receipt through the pipeline and returns the
// terminal run. A second Submit while one is active fails immediately
// with PipelineBusy and no side effects. No step is ever retried
// automatically; retry is an explicit re-invocation of Submit, which
// re-enters at validation and re-uploads.
func (o *Orchestrator) Submit(ctx context.Context, artifact models.UploadArtifact, tripID string) (*Run, error) {
	run, err := o.begin(tripID)
	if err != nil {
		return nil, err
	}
	defer o.finish(run)

	// Validating: local preconditions only, zero network calls.
	run.State = StateValidating
	if err := validate(artifact, tripID); err != nil {
		return o.fail(run, StateFailedValidation, err)
	}

	// Identity: cached profile id, or a fresh lookup when the cache
	// lacks one. Never cached across runs by the resolver itself.
	userID, err := o.resolveUser(ctx, run)
	if err != nil {
		if errkind.Is(err, errkind.Unauthorized) {
			return o.failAuth(run, err)
		}
		return o.fail(run, StateFailedValidation, err)
	}

	// Uploading. The reference belongs to this run alone; a retry
	// starts over with a fresh upload.
	run.State = StateUploading
	ref, err := o.uploader.Upload(ctx, artifact)
	if err != nil {
		if errkind.Is(err, errkind.Unauthorized) {
			return o.failAuth(run, err)
		}
		return o.fail(run, StateFailedUpload, err)
	}
	run.Reference = ref

	// Extracting: only ever with a successfully stored reference from
	// this same run.
	run.State = StateExtracting
	expenseID, err := o.extractor.Extract(ctx, ref, userID, tripID)
	if err != nil {
		if errkind.Is(err, errkind.Unauthorized) {
			return o.failAuth(run, err)
		}
		return o.fail(run, StateFailedExtraction, err)
	}

	run.ExpenseID = expenseID
	run.State = StateSucceeded
	return run, nil
}

func (o *Orchestrator) begin(tripID string) (*Run, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		return nil, errkind.New(errkind.PipelineBusy, "a submission is already in flight")
	}
	run := &Run{ID: uuid.NewString(), TripID: tripID, State: StateIdle}
	o.active = run
	return run, nil
}

func (o *Orchestrator) finish(run *Run) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == run {
		o.active = nil
	}
}

func (o *Orchestrator) fail(run *Run, state State, err error) (*Run, error) {
	run.State = state
	run.Err = err
	return run, err
}

func (o *Orchestrator) failAuth(run *Run, err error) (*Run, error) {
	if !run.authCleared {
		run.authCleared = true
		_ = o.store.Clear()
	}
	return o.fail(run, StateFailedAuth, err)
}

// resolveUser returns the user id for this run: the cached one when
// the profile carries it, otherwise a lookup by email.
func (o *Orchestrator) resolveUser(ctx context.Context, run *Run) (string, error) {
	token, err := o.store.Token()
	if err != nil || token == "" {
		return "", errkind.Wrap(errkind.Unauthorized, "no active session", err)
	}

	profile, err := o.store.Profile()
	if err != nil {
		return "", errkind.Wrap(errkind.Unauthorized, "session unavailable", err)
	}
	if profile != nil && profile.ID != "" {
		return profile.ID, nil
	}
	if profile == nil || profile.Email == "" {
		return "", errkind.New(errkind.Unauthorized, "session has no identity")
	}
	return o.identity.ResolveUserID(ctx, profile.Email)
}

func validate(artifact models.UploadArtifact, tripID string) error {
	if tripID == "" {
		return errkind.New(errkind.InvalidRequest, "no trip selected")
	}
	if artifact.Path == "" || artifact.Name == "" {
		return errkind.New(errkind.InvalidRequest, "no file selected")
	}
	if artifact.Size > models.MaxArtifactBytes {
		return errkind.New(errkind.PayloadTooLarge, "receipt exceeds the 5 MiB limit")
	}
	return nil
}
