package learnsdk

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a profile and token pair.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthPayload, error) {
	var payload AuthPayload
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", nil, creds, &payload, http.StatusOK, false); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register creates an account and returns the new profile and token pair.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthPayload, error) {
	var payload AuthPayload
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/register", nil, reg, &payload, http.StatusCreated, false); err != nil {
		return nil, err
	}
	return &payload, nil
}

// refreshRequest authorizes via the refresh token in the body, not the
// Authorization header; the access token being refreshed may already be
// expired.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh exchanges a refresh token for a new access token. The returned
// pair's RefreshToken is empty unless the server rotated it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	req := refreshRequest{RefreshToken: refreshToken}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", nil, req, &pair, http.StatusOK, false); err != nil {
		return nil, err
	}
	return &pair, nil
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the refresh token server-side. Callers treat local logout as
// authoritative: a failure here is logged, never blocking.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	req := logoutRequest{RefreshToken: refreshToken}
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/logout", nil, req, nil, http.StatusNoContent, true)
}

// CurrentUser fetches the profile for the access token's subject. This is
// the "who am I" call the session bootstrapper relies on.
func (c *Client) CurrentUser(ctx context.Context) (*UserProfile, error) {
	var user UserProfile
	if err := c.doJSON(ctx, http.MethodGet, "/v1/users/me", nil, nil, &user, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile merges the given fields into the current profile and returns
// the updated profile. Unset fields are left unchanged.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*UserProfile, error) {
	var user UserProfile
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/users/me", nil, update, &user, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &user, nil
}
