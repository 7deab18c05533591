package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
)

// ResolveUserID maps an email to the durable user id via
// GET /api/users?email=. The result is deliberately not cached across
// submissions — the profile may have changed role or id server-side.
func (c *Client) ResolveUserID(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", errkind.New(errkind.InvalidRequest, "email is required")
	}

	token, err := c.bearerToken()
	if err != nil {
		return "", err
	}

	reqURL := c.apiBase + "/api/users?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
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
		return "", errkind.New(errkind.IdentityNotFound, errorMessage(readBody(resp)))
	}

	users, err := decodeUsers(readBody(resp))
	if err != nil {
		return "", errkind.Wrap(errkind.IdentityNotFound, "malformed users response", err)
	}

	// Prefer the exact email match; the endpoint is expected to filter
	// already, so fall back to the first entry.
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u.ID, nil
		}
	}
	if len(users) > 0 {
		return users[0].ID, nil
	}
	return "", errkind.New(errkind.IdentityNotFound, "no user found for "+email)
}

// decodeUsers accepts both payload shapes the backend has shipped:
// {"users":[...]} and a bare array.
func decodeUsers(body []byte) ([]models.UserProfile, error) {
	var wrapped struct {
		Users []models.UserProfile `json:"users"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Users != nil {
		return wrapped.Users, nil
	}

	var bare []models.UserProfile
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}
