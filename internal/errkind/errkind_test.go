package errkind

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := New(Unauthorized, "session expired")
	if KindOf(err) != Unauthorized {
		t.Errorf("expected Unauthorized, got %q", KindOf(err))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Errorf("plain error should have no kind")
	}
	if KindOf(nil) != "" {
		t.Errorf("nil error should have no kind")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := Wrap(NetworkUnavailable, "request failed", errors.New("dial tcp: refused"))
	outer := fmt.Errorf("uploading: %w", inner)

	if !Is(outer, NetworkUnavailable) {
		t.Errorf("kind should survive fmt.Errorf wrapping")
	}
	if Is(outer, Unauthorized) {
		t.Errorf("wrong kind must not match")
	}
}

func TestErrorString(t *testing.T) {
	err := Wrap(UploadRejected, "bucket missing", errors.New("404"))
	got := err.Error()
	want := "upload_rejected: bucket missing: 404"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(New(ExtractionFailed, "bad image")); got != "bad image" {
		t.Errorf("got %q, want service message", got)
	}
	if got := Message(errors.New("raw failure")); got != "raw failure" {
		t.Errorf("got %q, want fallback to Error()", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("nil error should yield empty message, got %q", got)
	}
}
