package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxArtifactBytes is the hard cap on a receipt image, enforced locally
// before any network call.
const MaxArtifactBytes = 5 << 20 // 5 MiB

// UserProfile is the cached identity attached to a session.
type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Trip is a context a receipt is filed under. Created server-side,
// read-only to this module.
type Trip struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UploadArtifact is a locally selected file pending submission.
type UploadArtifact struct {
	Path      string // local filesystem path
	Name      string // declared file name sent to the backend
	Size      int64
	MediaType string
}

// StoredReference locates an uploaded artifact in durable storage.
// It is consumed exactly once by the extraction call and never reused
// across submissions.
type StoredReference struct {
	Path      string `json:"path"`
	PublicURL string `json:"url"`
}

// Expense is the server-side record created by the extraction service.
// This module only ever reads it; the id is what the pipeline reports
// back to the caller.
type Expense struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	TripID          string          `json:"trip_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	VendorName      string          `json:"vendor_name"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transaction_date"`
	PaymentMethod   string          `json:"payment_method"`
	DocumentURL     string          `json:"document_url"`
	Summary         string          `json:"summary"`
	CreatedAt       time.Time       `json:"created_at"`
}
