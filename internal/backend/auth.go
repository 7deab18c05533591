package backend

import (
	"context"
	"net/http"

	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	WalletID string `json:"walletId"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	WalletID string `json:"walletId"`
	Role     string `json:"role,omitempty"`
}

type authResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// Login authenticates against POST /auth/login and persists the
// returned session wholesale (token + profile in one replace).
func (c *Client) Login(ctx context.Context, email, password, walletID string) (*models.UserProfile, error) {
	if email == "" || password == "" {
		return nil, errkind.New(errkind.InvalidRequest, "email and password are required")
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, c.apiBase+"/auth/login", loginRequest{
		Email:    email,
		Password: password,
		WalletID: walletID,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, errkind.New(errkind.CredentialsRejected, errorMessage(readBody(resp)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errkind.New(errkind.FetchFailed, errorMessage(readBody(resp)))
	}

	var out authResponse
	if err := decodeJSON(resp.Body, &out); err != nil || out.Token == "" {
		return nil, errkind.Wrap(errkind.FetchFailed, "malformed login response", err)
	}

	if err := c.store.SetSession(out.Token, out.User); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Register creates an account via POST /auth/register. When the
// response carries a token the session is persisted immediately, same
// as a login.
func (c *Client) Register(ctx context.Context, email, password, walletID, role string) (*models.UserProfile, error) {
	if email == "" || password == "" {
		return nil, errkind.New(errkind.InvalidRequest, "email and password are required")
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, c.apiBase+"/auth/register", registerRequest{
		Email:    email,
		Password: password,
		WalletID: walletID,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, errkind.New(errkind.ValidationFailed, errorMessage(readBody(resp)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errkind.New(errkind.FetchFailed, errorMessage(readBody(resp)))
	}

	var out authResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, errkind.Wrap(errkind.FetchFailed, "malformed register response", err)
	}

	if out.Token != "" {
		if err := c.store.SetSession(out.Token, out.User); err != nil {
			return nil, err
		}
	}
	return &out.User, nil
}

// Logout clears the local session. The backend keeps no server-side
// session state to revoke.
func (c *Client) Logout() error {
	return c.store.Clear()
}
