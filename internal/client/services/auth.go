// Package services contains application services for the PharmTrack console.
// This file defines the authentication service: login, logout, account
// creation, and housekeeping of the locally cached recovery verifier.
package services

import (
	"context"
	"fmt"

	"github.com/pharmtrack/pharmtrack/internal/client/api"
	"github.com/pharmtrack/pharmtrack/internal/client/recovery"
	"github.com/pharmtrack/pharmtrack/internal/client/repositories/metadata"
	"github.com/pharmtrack/pharmtrack/internal/client/session"
)

// authAPI is the slice of the API client the auth service needs.
type authAPI interface {
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
	Signup(ctx context.Context, u api.NewUser) (*api.User, error)
}

// AuthService governs the client-held session.
//
// Contract:
//   - Login: authenticate against the backend, establish the session, and
//     overwrite the cached recovery verifier for that username.
//   - Logout: destroy the session unconditionally; the recovery cache is
//     left untouched.
//   - CurrentSession: the session as persisted, zero when logged out.
type AuthService interface {
	Login(ctx context.Context, username, password string) (session.Session, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (session.Session, error)
	Signup(ctx context.Context, u api.NewUser) (*api.User, error)
}

type authService struct {
	api      authAPI
	sessions session.Store
	meta     metadata.Repository
}

// NewAuthService constructs an AuthService bound to the given API client,
// session store and local metadata repository.
func NewAuthService(apiClient authAPI, sessions session.Store, meta metadata.Repository) AuthService {
	return &authService{api: apiClient, sessions: sessions, meta: meta}
}

func (a *authService) Login(ctx context.Context, username, password string) (session.Session, error) {
	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		return session.Session{}, err
	}

	sess := session.Session{
		Token:    resp.AccessToken,
		Role:     session.Role(resp.Role),
		Username: resp.Username,
	}
	if sess.Username == "" {
		sess.Username = username
	}
	if sess.Role == "" {
		// older backends omit the role in the grant; staff is the floor
		sess.Role = session.RoleStaff
	}

	if err := a.sessions.Set(ctx, sess); err != nil {
		return session.Session{}, fmt.Errorf("persist session: %w", err)
	}

	if resp.RecoveryPinHash != "" {
		if err := recovery.SaveVerifier(ctx, a.meta, sess.Username, resp.RecoveryPinHash); err != nil {
			return session.Session{}, fmt.Errorf("cache recovery verifier: %w", err)
		}
	}

	return sess, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

func (a *authService) CurrentSession(ctx context.Context) (session.Session, error) {
	return a.sessions.Get(ctx)
}

func (a *authService) Signup(ctx context.Context, u api.NewUser) (*api.User, error) {
	return a.api.Signup(ctx, u)
}
