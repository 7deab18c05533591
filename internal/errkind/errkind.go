// Package errkind defines the failure taxonomy shared by the session
// store, the backend clients and the submission pipeline. Callers
// branch on Kind instead of matching message strings.
package errkind

import "errors"

type Kind string

const (
	// Unauthorized means the session is stale or invalid. It is the
	// only kind that triggers implicit session clearing and is never
	// retried automatically.
	Unauthorized Kind = "unauthorized"
	// NetworkUnavailable covers transport failures and timeouts. Safe
	// to retry with the same inputs.
	NetworkUnavailable Kind = "network_unavailable"
	// PayloadTooLarge is raised locally before any network call when an
	// artifact exceeds the size cap.
	PayloadTooLarge Kind = "payload_too_large"
	// InvalidRequest is a local precondition violation (empty id,
	// missing file). No network call is made.
	InvalidRequest Kind = "invalid_request"

	UploadRejected      Kind = "upload_rejected"
	ExtractionFailed    Kind = "extraction_failed"
	MalformedExtraction Kind = "malformed_extraction_response"
	TripFetchFailed     Kind = "trip_fetch_failed"
	IdentityNotFound    Kind = "identity_not_found"
	FetchFailed         Kind = "fetch_failed"
	CredentialsRejected Kind = "credentials_rejected"
	ValidationFailed    Kind = "validation_failed"

	// PipelineBusy signals a second submit while a run is active. Not a
	// true failure; the caller should wait and resubmit.
	PipelineBusy Kind = "pipeline_busy"
	// StorageUnavailable is a local persistence failure. Callers treat
	// it as "no session"; it must never crash the caller.
	StorageUnavailable Kind = "storage_unavailable"
)

// Error carries a Kind, a display message (the service-provided one
// where available) and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind with a display message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Is reports whether any error in err's chain carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// "" when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the display message of the outermost *Error in err's
// chain, falling back to err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
