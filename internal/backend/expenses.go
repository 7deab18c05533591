package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
)

// ListExpenses reads recorded expenses via GET /api/expenses. tripID
// narrows the result when non-empty.
func (c *Client) ListExpenses(ctx context.Context, userID, tripID string) ([]models.Expense, error) {
	if userID == "" {
		return nil, errkind.New(errkind.InvalidRequest, "user id is required")
	}

	token, err := c.bearerToken()
	if err != nil {
		return nil, err
	}

	q := url.Values{"userId": {userID}}
	if tripID != "" {
		q.Set("tripId", tripID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/api/expenses?"+q.Encode(), http.NoBody)
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
		return nil, errkind.New(errkind.FetchFailed, errorMessage(readBody(resp)))
	}

	body := readBody(resp)
	var wrapped struct {
		Expenses []models.Expense `json:"expenses"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Expenses != nil {
		return wrapped.Expenses, nil
	}
	var bare []models.Expense
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, errkind.Wrap(errkind.FetchFailed, "malformed expenses response", err)
	}
	return bare, nil
}

// GetExpense reads one expense by id.
func (c *Client) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	if id == "" {
		return nil, errkind.New(errkind.InvalidRequest, "expense id is required")
	}

	token, err := c.bearerToken()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/api/expenses/"+url.PathEscape(id), http.NoBody)
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
	if resp.StatusCode == http.StatusNotFound {
		return nil, errkind.New(errkind.FetchFailed, "expense not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errkind.New(errkind.FetchFailed, errorMessage(readBody(resp)))
	}

	var expense models.Expense
	if err := decodeJSON(resp.Body, &expense); err != nil {
		return nil, errkind.Wrap(errkind.FetchFailed, "malformed expense response", err)
	}
	return &expense, nil
}
