package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
	"github.com/AnkitDash-code/Expensync/internal/session"
)

// --- fakes ---

type fakeResolver struct {
	calls int
	id    string
	err   error
}

func (f *fakeResolver) ResolveUserID(_ context.Context, email string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

type fakeUploader struct {
	calls   int
	ref     models.StoredReference
	err     error
	started chan struct{} // closed when the first upload begins, if set
	release chan struct{} // upload blocks until closed, if set
}

func (f *fakeUploader) Upload(_ context.Context, artifact models.UploadArtifact) (models.StoredReference, error) {
	f.calls++
	if f.started != nil && f.calls == 1 {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return models.StoredReference{}, f.err
	}
	return f.ref, nil
}

type fakeExtractor struct {
	calls   int
	gotRef  models.StoredReference
	gotUser string
	gotTrip string
	id      string
	err     error
}

func (f *fakeExtractor) Extract(_ context.Context, ref models.StoredReference, userID, tripID string) (string, error) {
	f.calls++
	f.gotRef = ref
	f.gotUser = userID
	f.gotTrip = tripID
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

func testStore(t *testing.T) *session.MemoryStore {
	t.Helper()
	store := session.NewMemoryStore()
	err := store.SetSession("tok-1", models.UserProfile{ID: "u1", Email: "ana@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func smallArtifact() models.UploadArtifact {
	return models.UploadArtifact{Path: "/tmp/receipt.png", Name: "receipt.png", Size: 1024, MediaType: "image/png"}
}

// --- tests ---

func TestSubmit_Success(t *testing.T) {
	store := testStore(t)
	uploader := &fakeUploader{ref: models.StoredReference{Path: "u1/t1/receipt.png", PublicURL: "https://store/receipts/u1/t1/receipt.png"}}
	extractor := &fakeExtractor{id: "e42"}
	resolver := &fakeResolver{id: "unused"}

	orch := New(store, resolver, uploader, extractor)
	run, err := orch.Submit(context.Background(), smallArtifact(), "t1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if run.State != StateSucceeded {
		t.Errorf("state %s, want succeeded", run.State)
	}
	if run.ExpenseID != "e42" {
		t.Errorf("expense id %q, want e42", run.ExpenseID)
	}
	if extractor.gotRef != uploader.ref {
		t.Errorf("extraction must consume the reference from this run, got %+v", extractor.gotRef)
	}
	if extractor.gotUser != "u1" || extractor.gotTrip != "t1" {
		t.Errorf("extract called with user=%q trip=%q", extractor.gotUser, extractor.gotTrip)
	}
	if resolver.calls != 0 {
		t.Errorf("cached profile id must skip the identity lookup, saw %d calls", resolver.calls)
	}
	if orch.Busy() {
		t.Error("orchestrator should be idle after a terminal run")
	}
}

func TestSubmit_ResolvesIdentityWhenCacheLacksID(t *testing.T) {
	store := session.NewMemoryStore()
	_ = store.SetSession("tok-1", models.UserProfile{Email: "ana@example.com"})
	uploader := &fakeUploader{ref: models.StoredReference{PublicURL: "https://store/x.png"}}
	extractor := &fakeExtractor{id: "e1"}
	resolver := &fakeResolver{id: "u99"}

	orch := New(store, resolver, uploader, extractor)
	if _, err := orch.Submit(context.Background(), smallArtifact(), "t1"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if resolver.calls != 1 {
		t.Fatalf("expected one identity lookup, got %d", resolver.calls)
	}
	if extractor.gotUser != "u99" {
		t.Errorf("extract called with user %q, want the freshly resolved u99", extractor.gotUser)
	}
}

func TestSubmit_OversizeFailsValidationWithZeroCalls(t *testing.T) {
	store := testStore(t)
	uploader := &fakeUploader{}
	extractor := &fakeExtractor{}
	resolver := &fakeResolver{}

	artifact := smallArtifact()
	artifact.Size = models.MaxArtifactBytes + 1

	orch := New(store, resolver, uploader, extractor)
	run, err := orch.Submit(context.Background(), artifact, "t1")

	if run.State != StateFailedValidation {
		t.Errorf("state %s, want failed_validation", run.State)
	}
	if !errkind.Is(err, errkind.PayloadTooLarge) {
		t.Errorf("got %v, want PayloadTooLarge", err)
	}
	if resolver.calls+uploader.calls+extractor.calls != 0 {
		t.Errorf("oversize submit must issue zero calls (resolver=%d uploader=%d extractor=%d)",
			resolver.calls, uploader.calls, extractor.calls)
	}
}

func TestSubmit_NoTripSelected(t *testing.T) {
	store := testStore(t)
	orch := New(store, &fakeResolver{}, &fakeUploader{}, &fakeExtractor{})

	run, err := orch.Submit(context.Background(), smallArtifact(), "")
	if run.State != StateFailedValidation {
		t.Errorf("state %s, want failed_validation", run.State)
	}
	if !errkind.Is(err, errkind.InvalidRequest) {
		t.Errorf("got %v, want InvalidRequest", err)
	}
}

func TestSubmit_UnauthorizedUploadReachesFailedAuth(t *testing.T) {
	store := testStore(t)
	uploader := &fakeUploader{err: errkind.New(errkind.Unauthorized, "session expired")}
	extractor := &fakeExtractor{}

	orch := New(store, &fakeResolver{}, uploader, extractor)
	run, err := orch.Submit(context.Background(), smallArtifact(), "t1")

	if run.State != StateFailedAuth {
		t.Errorf("state %s, want failed_auth", run.State)
	}
	if !errkind.Is(err, errkind.Unauthorized) {
		t.Errorf("got %v, want Unauthorized", err)
	}
	token, _ := store.Token()
	if token != "" {
		t.Errorf("session must be cleared after 401, token still %q", token)
	}
	if extractor.calls != 0 {
		t.Errorf("no further steps may run after auth failure, extract called %d times", extractor.calls)
	}
}

func TestSubmit_UnauthorizedExtractionReachesFailedAuth(t *testing.T) {
	store := testStore(t)
	uploader := &fakeUploader{ref: models.StoredReference{PublicURL: "https://store/x.png"}}
	extractor := &fakeExtractor{err: errkind.New(errkind.Unauthorized, "session expired")}

	orch := New(store, &fakeResolver{}, uploader, extractor)
	run, _ := orch.Submit(context.Background(), smallArtifact(), "t1")

	if run.State != StateFailedAuth {
		t.Errorf("state %s, want failed_auth", run.State)
	}
	token, _ := store.Token()
	if token != "" {
		t.Errorf("session must be cleared, token still %q", token)
	}
}

func TestSubmit_ExtractionFailureIsNotUploadFailure(t *testing.T) {
	store := testStore(t)
	uploader := &fakeUploader{ref: models.StoredReference{PublicURL: "https://store/x.png"}}
	extractor := &fakeExtractor{err: errkind.New(errkind.ExtractionFailed, "bad image")}

	orch := New(store, &fakeResolver{}, uploader, extractor)
	run, err := orch.Submit(context.Background(), smallArtifact(), "t1")

	if run.State != StateFailedExtraction {
		t.Errorf("state %s, want failed_extraction — the upload succeeded", run.State)
	}
	if !strings.Contains(errkind.Message(err), "bad image") {
		t.Errorf("surfaced message should contain 'bad image', got %q", errkind.Message(err))
	}
	if run.Reference.PublicURL == "" {
		t.Error("the run should keep the stored reference from the successful upload")
	}
	token, _ := store.Token()
	if token == "" {
		t.Error("a business failure must not clear the session")
	}
}

func TestSubmit_SecondSubmitIsBusy(t *testing.T) {
	store := testStore(t)
	uploader := &fakeUploader{
		ref:     models.StoredReference{PublicURL: "https://store/x.png"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	extractor := &fakeExtractor{id: "e1"}

	orch := New(store, &fakeResolver{}, uploader, extractor)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = orch.Submit(context.Background(), smallArtifact(), "t1")
	}()

	<-uploader.started
	if !orch.Busy() {
		t.Error("orchestrator should report busy while a run is in flight")
	}

	_, err := orch.Submit(context.Background(), smallArtifact(), "t1")
	if !errkind.Is(err, errkind.PipelineBusy) {
		t.Fatalf("got %v, want PipelineBusy", err)
	}
	if uploader.calls != 1 {
		t.Errorf("the busy submit must not trigger any network calls, uploads=%d", uploader.calls)
	}

	close(uploader.release)
	<-done

	// With the first run terminal, a new submission is accepted again.
	if _, err := orch.Submit(context.Background(), smallArtifact(), "t1"); err != nil {
		t.Fatalf("submit after terminal run: %v", err)
	}
}

func TestSubmit_FreshUploadPerRun(t *testing.T) {
	store := testStore(t)
	uploader := &fakeUploader{ref: models.StoredReference{PublicURL: "https://store/x.png"}}
	extractor := &fakeExtractor{err: errkind.New(errkind.ExtractionFailed, "transient")}

	orch := New(store, &fakeResolver{}, uploader, extractor)
	_, _ = orch.Submit(context.Background(), smallArtifact(), "t1")

	// An explicit resubmission re-enters at validation and re-uploads;
	// references are never reused across runs.
	extractor.err = nil
	extractor.id = "e2"
	if _, err := orch.Submit(context.Background(), smallArtifact(), "t1"); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if uploader.calls != 2 {
		t.Errorf("expected a fresh upload per run, got %d uploads", uploader.calls)
	}
}

func TestSubmit_NoSessionIsFailedAuth(t *testing.T) {
	store := session.NewMemoryStore()
	orch := New(store, &fakeResolver{}, &fakeUploader{}, &fakeExtractor{})

	run, err := orch.Submit(context.Background(), smallArtifact(), "t1")
	if run.State != StateFailedAuth {
		t.Errorf("state %s, want failed_auth", run.State)
	}
	if !errkind.Is(err, errkind.Unauthorized) {
		t.Errorf("got %v, want Unauthorized", err)
	}
}

func TestStateTerminal(t *testing.T) {
	terminal := []State{StateSucceeded, StateFailedValidation, StateFailedUpload, StateFailedExtraction, StateFailedAuth}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []State{StateIdle, StateValidating, StateUploading, StateExtracting} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
