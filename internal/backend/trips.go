package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
)

// ListTrips fetches the trips available to a user via
// GET /api/trips?userId=. An empty list is a valid result, distinct
// from any error — "no trips" is a state the caller shows, not a
// failure.
func (c *Client) ListTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	if userID == "" {
		return nil, errkind.New(errkind.InvalidRequest, "user id is required")
	}

	token, err := c.bearerToken()
	if err != nil {
		return nil, err
	}

	reqURL := c.apiBase + "/api/trips?userId=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.unauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errkind.New(errkind.TripFetchFailed, errorMessage(readBody(resp)))
	}

	var wrapped struct {
		Trips []models.Trip `json:"trips"`
	}
	if err := json.Unmarshal(readBody(resp), &wrapped); err != nil {
		return nil, errkind.Wrap(errkind.TripFetchFailed, "malformed trips response", err)
	}
	if wrapped.Trips == nil {
		return []models.Trip{}, nil
	}
	return wrapped.Trips, nil
}
