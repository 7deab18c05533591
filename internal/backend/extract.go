package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
)

type extractRequest struct {
	FileURL string `json:"file_url"`
	UserID  string `json:"user_id"`
	TripID  string `json:"trip_id"`
}

// Extract submits a stored artifact to POST /ocr and returns the id of
// the expense record the extraction service created.
//
// Two failure shapes are kept deliberately distinguishable: a non-2xx
// answer carries the service's own message (ExtractionFailed, shown to
// the user as "upload worked, the receipt couldn't be parsed"), while
// a 2xx answer that lacks a usable expense id is
// MalformedExtraction — the service said yes but recorded nothing.
func (c *Client) Extract(ctx context.Context, ref models.StoredReference, userID, tripID string) (string, error) {
	if ref.PublicURL == "" || userID == "" || tripID == "" {
		return "", errkind.New(errkind.InvalidRequest, "file url, user id and trip id are all required")
	}

	token, err := c.bearerToken()
	if err != nil {
		return "", err
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, c.ocrBase+"/ocr", extractRequest{
		FileURL: ref.PublicURL,
		UserID:  userID,
		TripID:  tripID,
	})
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", c.unauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errkind.New(errkind.ExtractionFailed, errorMessage(readBody(resp)))
	}

	var out struct {
		ExpenseID string `json:"expense_id"`
	}
	if err := json.Unmarshal(readBody(resp), &out); err != nil || out.ExpenseID == "" {
		return "", errkind.Wrap(errkind.MalformedExtraction, "no expense id in extraction response", err)
	}
	return out.ExpenseID, nil
}
