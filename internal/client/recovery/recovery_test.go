package recovery

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/pharmtrack/pharmtrack/internal/client/repositories/metadata"
	"github.com/pharmtrack/pharmtrack/internal/common"
	"github.com/stretchr/testify/require"
)

// fakeResetter records calls and returns a configurable error.
type fakeResetter struct {
	Err error

	Calls        int
	LastUsername string
	LastPassword string
}

func (f *fakeResetter) ResetPassword(ctx context.Context, username, newPassword string) error {
	f.Calls++
	f.LastUsername = username
	f.LastPassword = newPassword
	return f.Err
}

func pinHash(t *testing.T, pin string) []byte {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func seedVerifier(t *testing.T, meta metadata.Repository, username, pin string) {
	t.Helper()
	require.NoError(t, SaveVerifier(context.Background(), meta, username, string(pinHash(t, pin))))
}

func TestFlow_BeginDoesNotTouchBackend(t *testing.T) {
	api := &fakeResetter{}
	f := NewFlow(metadata.NewInMemoryRepository(), api)

	f.Begin("alice")
	require.Equal(t, StatePinEntry, f.State())
	require.Zero(t, api.Calls)
}

func TestFlow_VerifyPin_NoCacheEntry(t *testing.T) {
	ctx := context.Background()
	f := NewFlow(metadata.NewInMemoryRepository(), &fakeResetter{})
	f.Begin("alice")

	for _, pin := range []string{"1234", "", "0000"} {
		err := f.VerifyPin(ctx, "alice", pin)
		require.ErrorIs(t, err, common.ErrNoRecoveryData, "pin %q", pin)
		require.Equal(t, StateFailed, f.State())
	}
}

func TestFlow_VerifyPin_Mismatch_IdempotentNoSideEffects(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	seedVerifier(t, meta, "alice", "1234")

	before, err := meta.List(ctx)
	require.NoError(t, err)

	f := NewFlow(meta, &fakeResetter{})
	f.Begin("alice")

	for i := 0; i < 2; i++ {
		err := f.VerifyPin(ctx, "alice", "9999")
		require.ErrorIs(t, err, common.ErrPinMismatch)
		require.Equal(t, StateFailed, f.State())
	}

	after, err := meta.List(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after, "failed verification must not touch the cache")
}

func TestFlow_VerifyPin_MatchThenRetryAfterFailure(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	seedVerifier(t, meta, "alice", "1234")

	f := NewFlow(meta, &fakeResetter{})
	f.Begin("alice")

	require.ErrorIs(t, f.VerifyPin(ctx, "alice", "0000"), common.ErrPinMismatch)

	// flow stays re-enterable after a failure
	require.NoError(t, f.VerifyPin(ctx, "alice", "1234"))
	require.Equal(t, StateVerified, f.State())
}

func TestFlow_CompleteReset_Online(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	seedVerifier(t, meta, "alice", "1234")
	api := &fakeResetter{}

	f := NewFlow(meta, api)
	f.Begin("alice")
	require.NoError(t, f.VerifyPin(ctx, "alice", "1234"))

	state, err := f.CompleteReset(ctx, "alice", "brand-new-password")
	require.NoError(t, err)
	require.Equal(t, StateVerifiedOnline, state)
	require.Equal(t, 1, api.Calls)
	require.Equal(t, "alice", api.LastUsername)
	require.Equal(t, "brand-new-password", api.LastPassword)

	pending, err := PendingSync(ctx, meta)
	require.NoError(t, err)
	require.Nil(t, pending)
}

func TestFlow_CompleteReset_BackendDownParksPendingSync(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	seedVerifier(t, meta, "alice", "1234")
	api := &fakeResetter{Err: errors.New("connection refused")}

	f := NewFlow(meta, api)
	f.Begin("alice")
	require.NoError(t, f.VerifyPin(ctx, "alice", "1234"))

	state, err := f.CompleteReset(ctx, "alice", "brand-new-password")
	require.NoError(t, err)
	require.Equal(t, StateVerifiedOfflinePendingSync, state)

	pending, err := PendingSync(ctx, meta)
	require.NoError(t, err)
	require.NotNil(t, pending)
	require.Equal(t, "alice", pending.Username)
	require.Equal(t, "brand-new-password", pending.NewPassword)
}

func TestFlow_CompleteReset_RejectsShortPassword(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	seedVerifier(t, meta, "alice", "1234")
	api := &fakeResetter{}

	f := NewFlow(meta, api)
	f.Begin("alice")
	require.NoError(t, f.VerifyPin(ctx, "alice", "1234"))

	_, err := f.CompleteReset(ctx, "alice", "short")
	require.ErrorIs(t, err, common.ErrPasswordTooShort)
	require.Zero(t, api.Calls, "too-short password must never reach the backend")
}

func TestFlow_CompleteReset_RefusedWithoutPinCheck(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	seedVerifier(t, meta, "alice", "1234")
	api := &fakeResetter{}

	f := NewFlow(meta, api)

	// no Begin, no VerifyPin
	state, err := f.CompleteReset(ctx, "alice", "attacker-chosen-pw")
	require.ErrorIs(t, err, common.ErrPinNotVerified)
	require.Equal(t, StateLoggedOut, state)
	require.Zero(t, api.Calls, "unverified reset must never reach the backend")

	// PIN entry alone is not enough either
	f.Begin("alice")
	_, err = f.CompleteReset(ctx, "alice", "attacker-chosen-pw")
	require.ErrorIs(t, err, common.ErrPinNotVerified)
	require.Zero(t, api.Calls)

	// nor is a failed check
	require.ErrorIs(t, f.VerifyPin(ctx, "alice", "9999"), common.ErrPinMismatch)
	_, err = f.CompleteReset(ctx, "alice", "attacker-chosen-pw")
	require.ErrorIs(t, err, common.ErrPinNotVerified)
	require.Zero(t, api.Calls)

	pending, err := PendingSync(ctx, meta)
	require.NoError(t, err)
	require.Nil(t, pending, "refused reset must not park a pending change")
}

func TestFlow_CompleteReset_RefusedForDifferentUser(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	seedVerifier(t, meta, "alice", "1234")
	api := &fakeResetter{}

	f := NewFlow(meta, api)
	f.Begin("alice")
	require.NoError(t, f.VerifyPin(ctx, "alice", "1234"))

	_, err := f.CompleteReset(ctx, "mallory", "attacker-chosen-pw")
	require.ErrorIs(t, err, common.ErrPinNotVerified)
	require.Zero(t, api.Calls)

	// the verified user can still complete normally
	state, err := f.CompleteReset(ctx, "alice", "brand-new-password")
	require.NoError(t, err)
	require.Equal(t, StateVerifiedOnline, state)
	require.Equal(t, 1, api.Calls)
}

func TestFlow_VerifyPin_BoundToBeganUsername(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	seedVerifier(t, meta, "alice", "1234")
	seedVerifier(t, meta, "bob", "1234")

	f := NewFlow(meta, &fakeResetter{})

	// no Begin at all
	require.ErrorIs(t, f.VerifyPin(ctx, "alice", "1234"), common.ErrRecoveryNotStarted)

	// Begin for one user does not open the gate for another
	f.Begin("alice")
	require.ErrorIs(t, f.VerifyPin(ctx, "bob", "1234"), common.ErrRecoveryNotStarted)
	require.Equal(t, StatePinEntry, f.State())

	require.NoError(t, f.VerifyPin(ctx, "alice", "1234"))
	require.Equal(t, StateVerified, f.State())
}

func TestFlow_Cancel_DropsVerification(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	seedVerifier(t, meta, "alice", "1234")
	api := &fakeResetter{}

	f := NewFlow(meta, api)
	f.Begin("alice")
	require.NoError(t, f.VerifyPin(ctx, "alice", "1234"))

	f.Cancel()
	require.Equal(t, StateLoggedOut, f.State())

	_, err := f.CompleteReset(ctx, "alice", "brand-new-password")
	require.ErrorIs(t, err, common.ErrPinNotVerified)
	require.Zero(t, api.Calls)
}

func TestFlow_OnlineResetClearsPriorPendingMarker(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	seedVerifier(t, meta, "alice", "1234")

	// park an old offline change first
	require.NoError(t, storePending(ctx, meta, PendingReset{Username: "alice", NewPassword: "old-offline-pw"}))

	f := NewFlow(meta, &fakeResetter{})
	f.Begin("alice")
	require.NoError(t, f.VerifyPin(ctx, "alice", "1234"))

	state, err := f.CompleteReset(ctx, "alice", "fresh-password")
	require.NoError(t, err)
	require.Equal(t, StateVerifiedOnline, state)

	pending, err := PendingSync(ctx, meta)
	require.NoError(t, err)
	require.Nil(t, pending, "online reset must clear the deferred marker")
}

func TestSaveVerifier_OverwritesStaleValue(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()

	require.NoError(t, SaveVerifier(ctx, meta, "alice", "old"))
	require.NoError(t, SaveVerifier(ctx, meta, "alice", "new"))

	v, err := meta.Get(ctx, "recovery_pin_hash:alice")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestHasVerifier(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()

	ok, err := HasVerifier(ctx, meta, "alice")
	require.NoError(t, err)
	require.False(t, ok)

	seedVerifier(t, meta, "alice", "1234")
	ok, err = HasVerifier(ctx, meta, "alice")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDrainPending_NothingParked(t *testing.T) {
	ctx := context.Background()
	api := &fakeResetter{}

	drained, err := DrainPending(ctx, metadata.NewInMemoryRepository(), api)
	require.NoError(t, err)
	require.False(t, drained)
	require.Zero(t, api.Calls)
}

func TestDrainPending_AppliesAndClears(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	require.NoError(t, storePending(ctx, meta, PendingReset{Username: "alice", NewPassword: "parked-password"}))
	api := &fakeResetter{}

	drained, err := DrainPending(ctx, meta, api)
	require.NoError(t, err)
	require.True(t, drained)
	require.Equal(t, "alice", api.LastUsername)
	require.Equal(t, "parked-password", api.LastPassword)

	pending, err := PendingSync(ctx, meta)
	require.NoError(t, err)
	require.Nil(t, pending)
}

func TestDrainPending_BackendStillDownKeepsMarker(t *testing.T) {
	ctx := context.Background()
	meta := metadata.NewInMemoryRepository()
	require.NoError(t, storePending(ctx, meta, PendingReset{Username: "alice", NewPassword: "parked-password"}))
	api := &fakeResetter{Err: errors.New("still down")}

	drained, err := DrainPending(ctx, meta, api)
	require.Error(t, err)
	require.False(t, drained)

	pending, pErr := PendingSync(ctx, meta)
	require.NoError(t, pErr)
	require.NotNil(t, pending, "marker must survive a failed drain")
}
