// Package recovery implements the offline password-recovery flow. A bcrypt
// verifier of the user's recovery PIN, cached at login time, lets the PIN be
// checked locally; the resulting password reset is pushed to the backend
// when reachable, or parked under a pending-sync marker until it is.
//
// Verifying a credential against a locally cached hash is a deliberate
// trade-off: it buys offline recovery at the cost of exposing a verifier to
// the device. Only devices that previously completed a login hold one.
package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/pharmtrack/pharmtrack/internal/client/repositories/metadata"
	"github.com/pharmtrack/pharmtrack/internal/common"
)

// State is the position of the recovery flow.
type State int

const (
	StateLoggedOut State = iota
	StatePinEntry
	StateVerified
	StateVerifiedOnline
	StateVerifiedOfflinePendingSync
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePinEntry:
		return "pin-entry"
	case StateVerified:
		return "verified"
	case StateVerifiedOnline:
		return "verified-online"
	case StateVerifiedOfflinePendingSync:
		return "verified-offline-pending-sync"
	case StateFailed:
		return "failed"
	default:
		return "logged-out"
	}
}

// MinPasswordLen is the client-side lower bound on a replacement password.
const MinPasswordLen = 8

const (
	verifierKeyPrefix  = "recovery_pin_hash:"
	keyNeedsSync       = "needs_password_sync"
	keyPendingPassword = "pending_new_password"
)

// Resetter is the slice of the API client the flow needs.
type Resetter interface {
	ResetPassword(ctx context.Context, username, newPassword string) error
}

// PendingReset is the deferred password change parked locally until the
// backend is reachable.
type PendingReset struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

// Flow drives one password-recovery attempt, bound to the username given to
// Begin. Every step is re-enterable: a failed PIN check or an unreachable
// backend never forces the user back to scratch. A reset can only be applied
// after a successful PIN check for the same username.
type Flow struct {
	meta     metadata.Repository
	api      Resetter
	state    State
	username string
}

func NewFlow(meta metadata.Repository, api Resetter) *Flow {
	return &Flow{meta: meta, api: api, state: StateLoggedOut}
}

// State returns the flow's current position.
func (f *Flow) State() State { return f.state }

// Begin enters PIN entry for username and binds the attempt to that user.
// No backend contact happens here.
func (f *Flow) Begin(username string) {
	f.username = username
	f.state = StatePinEntry
}

// Cancel abandons the attempt.
func (f *Flow) Cancel() {
	f.username = ""
	f.state = StateLoggedOut
}

// VerifyPin checks the entered PIN against the locally cached verifier for
// username. It has no side effects on the cache and may be retried any
// number of times.
//
// Returns common.ErrRecoveryNotStarted when Begin was not called for this
// username, common.ErrNoRecoveryData when this device never completed a
// login as username, and common.ErrPinMismatch when the PIN is wrong.
func (f *Flow) VerifyPin(ctx context.Context, username, pin string) error {
	if f.username == "" || username != f.username {
		return common.ErrRecoveryNotStarted
	}

	verifier, err := f.meta.Get(ctx, verifierKeyPrefix+username)
	if errors.Is(err, common.ErrorNotFound) {
		f.state = StateFailed
		return common.ErrNoRecoveryData
	}
	if err != nil {
		return fmt.Errorf("read recovery verifier: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(verifier, []byte(pin)); err != nil {
		f.state = StateFailed
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return common.ErrPinMismatch
		}
		return fmt.Errorf("compare recovery verifier: %w", err)
	}

	f.state = StateVerified
	return nil
}

// CompleteReset applies the new password after a successful PIN check. It
// tries the backend's synchronous reset endpoint first; if that call cannot
// be reached or completed, the change is stored locally under a pending-sync
// marker and the flow reports StateVerifiedOfflinePendingSync.
//
// The machine itself enforces the PIN gate: unless the flow holds a
// successful verification for this exact username, the reset is refused with
// common.ErrPinNotVerified and the backend is never contacted.
func (f *Flow) CompleteReset(ctx context.Context, username, newPassword string) (State, error) {
	if f.state != StateVerified || username != f.username {
		return f.state, common.ErrPinNotVerified
	}
	if len(newPassword) < MinPasswordLen {
		return f.state, common.ErrPasswordTooShort
	}

	if err := f.api.ResetPassword(ctx, username, newPassword); err != nil {
		if storeErr := storePending(ctx, f.meta, PendingReset{Username: username, NewPassword: newPassword}); storeErr != nil {
			return f.state, fmt.Errorf("store pending reset: %w", storeErr)
		}
		f.state = StateVerifiedOfflinePendingSync
		return f.state, nil
	}

	if err := ClearPending(ctx, f.meta); err != nil {
		return f.state, fmt.Errorf("clear pending reset: %w", err)
	}
	f.state = StateVerifiedOnline
	return f.state, nil
}

// SaveVerifier caches the recovery verifier returned at login, overwriting
// any stale value for that username.
func SaveVerifier(ctx context.Context, meta metadata.Repository, username, verifier string) error {
	return meta.Set(ctx, verifierKeyPrefix+username, []byte(verifier))
}

// HasVerifier reports whether this device holds recovery data for username.
func HasVerifier(ctx context.Context, meta metadata.Repository, username string) (bool, error) {
	_, err := meta.Get(ctx, verifierKeyPrefix+username)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PendingSync returns the parked password change, or nil when there is none.
func PendingSync(ctx context.Context, meta metadata.Repository) (*PendingReset, error) {
	if _, err := meta.Get(ctx, keyNeedsSync); errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	payload, err := meta.Get(ctx, keyPendingPassword)
	if errors.Is(err, common.ErrorNotFound) {
		// marker without payload: treat as no pending change
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var pending PendingReset
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("decode pending reset: %w", err)
	}
	return &pending, nil
}

// DrainPending retries the parked reset against the backend. It returns
// true when a pending change existed and was applied (and the marker
// cleared). A still-unreachable backend leaves the marker in place.
func DrainPending(ctx context.Context, meta metadata.Repository, api Resetter) (bool, error) {
	pending, err := PendingSync(ctx, meta)
	if err != nil {
		return false, err
	}
	if pending == nil {
		return false, nil
	}

	if err := api.ResetPassword(ctx, pending.Username, pending.NewPassword); err != nil {
		return false, err
	}

	if err := ClearPending(ctx, meta); err != nil {
		return false, err
	}
	return true, nil
}

// ClearPending removes the pending-sync marker and its payload.
func ClearPending(ctx context.Context, meta metadata.Repository) error {
	if err := meta.Delete(ctx, keyNeedsSync); err != nil {
		return err
	}
	return meta.Delete(ctx, keyPendingPassword)
}

func storePending(ctx context.Context, meta metadata.Repository, pending PendingReset) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	if err := meta.Set(ctx, keyPendingPassword, payload); err != nil {
		return err
	}
	return meta.Set(ctx, keyNeedsSync, []byte("1"))
}
