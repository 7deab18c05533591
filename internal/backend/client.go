// Package backend implements the HTTP clients for the services the
// receipt pipeline talks to: the Expensync API (auth, users, trips,
// files, expenses) and the OCR extraction service. All authenticated
// calls carry Authorization: Bearer <token>, and a 401 from any of
// them uniformly invalidates the session.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/AnkitDash-code/Expensync/internal/config"
	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/session"
)

type Client struct {
	httpClient  *http.Client
	apiBase     string
	ocrBase     string
	bucket      string
	storageBase string
	store       session.Store
}

func New(cfg *config.Config, store session.Store) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.HTTPTimeout},
		apiBase:     strings.TrimRight(cfg.APIBaseURL, "/"),
		ocrBase:     strings.TrimRight(cfg.OCRBaseURL, "/"),
		bucket:      cfg.Bucket,
		storageBase: strings.TrimRight(cfg.StorageBase, "/"),
		store:       store,
	}
}

// bearerToken captures the current token once per call. The token is
// immutable once captured; a concurrent Clear affects the next call,
// not this one.
func (c *Client) bearerToken() (string, error) {
	token, err := c.store.Token()
	if err != nil {
		// Storage failure degrades to "no session".
		return "", errkind.Wrap(errkind.Unauthorized, "session unavailable", err)
	}
	if token == "" {
		return "", errkind.New(errkind.Unauthorized, "no active session")
	}
	return token, nil
}

// unauthorized handles a 401 from any collaborator: the session is
// cleared and a distinct error is surfaced so the caller can ask the
// user to re-authenticate.
func (c *Client) unauthorized() error {
	_ = c.store.Clear()
	return errkind.New(errkind.Unauthorized, "session expired or invalid")
}

// transportError classifies a failed round trip. Timeouts count as
// network unavailability, never as an auth problem.
func transportError(err error) error {
	return errkind.Wrap(errkind.NetworkUnavailable, "request failed", err)
}

func (c *Client) newJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// errorMessage pulls a display message out of an error response body.
// The services answer with {"error": ...} or {"message": ...}; anything
// else is used verbatim, truncated.
func errorMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func readBody(resp *http.Response) []byte {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return body
}
