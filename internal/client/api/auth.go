package api

import (
	"context"
	"net/http"
	"net/url"
)

// LoginResponse is the token grant returned by POST /auth/login. The
// recovery PIN hash is a bcrypt verifier the client caches locally so the
// password-recovery flow can run offline on this device.
type LoginResponse struct {
	AccessToken     string `json:"access_token"`
	TokenType       string `json:"token_type"`
	Role            string `json:"role"`
	Username        string `json:"username"`
	RecoveryPinHash string `json:"recovery_pin_hash"`
}

// Login performs the OAuth2 password grant. The credentials travel as a
// form body, not JSON.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	var resp LoginResponse
	if err := c.doForm(ctx, "/auth/login", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// NewUser is the payload for creating an account (admin operation).
type NewUser struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// User is the account representation the backend returns (no credentials).
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Signup registers a new user account.
func (c *Client) Signup(ctx context.Context, u NewUser) (*User, error) {
	var created User
	if err := c.do(ctx, http.MethodPost, "/auth/signup", u, nil, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type resetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

// ResetPassword applies a new password for username via the synchronous
// reset endpoint. Used by the recovery flow after a successful local PIN
// check, and by the background sync that drains a deferred reset.
func (c *Client) ResetPassword(ctx context.Context, username, newPassword string) error {
	req := resetPasswordRequest{Username: username, NewPassword: newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", req, nil, nil)
}

// Health probes backend liveness. Used by the online-status watcher.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
