package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pharmtrack/pharmtrack/internal/client/recovery"
	"github.com/pharmtrack/pharmtrack/internal/common"
)

// Recover drives the PIN-based password reset. It only works on a device
// that previously completed a login as the given username, because the PIN
// verifier is cached at login time.
//
// Flow: prompt username → verify PIN against the local cache (retryable) →
// prompt the replacement password twice → apply. If the backend is
// unreachable, the change is parked locally and synced by the connectivity
// watcher once the server is back.
func (a *App) Recover(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := recovery.HasVerifier(ctx, a.meta, userName)
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("Recovery unavailable: %s", common.ErrNoRecoveryData.Error())
		return common.ErrNoRecoveryData
	}

	for {
		a.flow.Begin(userName)

		pin, err := getSecret(os.Stdout, "Enter recovery PIN: ")
		if err != nil {
			a.flow.Cancel()
			return err
		}
		verifyErr := a.flow.VerifyPin(ctx, userName, string(pin))
		common.WipeByteArray(pin)

		if verifyErr == nil {
			break
		}

		if errors.Is(verifyErr, common.ErrNoRecoveryData) {
			log.Printf("Recovery unavailable: %s", verifyErr.Error())
			a.flow.Cancel()
			return verifyErr
		}

		log.Printf("PIN check failed: %s", verifyErr.Error())
		again, err := getSimpleText(a.reader, "Try again? (y/n)", os.Stdout)
		if err != nil || !strings.EqualFold(again, "y") {
			a.flow.Cancel()
			return verifyErr
		}
	}

	for {
		pw1, err := getSecret(os.Stdout, "New password: ")
		if err != nil {
			a.flow.Cancel()
			return err
		}
		pw2, err := getSecret(os.Stdout, "Repeat new password: ")
		if err != nil {
			common.WipeByteArray(pw1)
			a.flow.Cancel()
			return err
		}

		match := bytes.Equal(pw1, pw2)
		newPassword := string(pw1)
		common.WipeByteArray(pw1)
		common.WipeByteArray(pw2)

		if !match {
			fmt.Println("Passwords do not match, try again.")
			continue
		}

		state, err := a.flow.CompleteReset(ctx, userName, newPassword)
		if err != nil {
			if errors.Is(err, common.ErrPasswordTooShort) {
				fmt.Printf("Password must be at least %d characters.\n", recovery.MinPasswordLen)
				continue
			}
			log.Printf("Password reset failed: %s", err.Error())
			return err
		}

		switch state {
		case recovery.StateVerifiedOnline:
			fmt.Println("Password reset on the server. Log in with the new password.")
		case recovery.StateVerifiedOfflinePendingSync:
			fmt.Println("Server unreachable; the new password will be synced once the connection returns.")
		}
		return nil
	}
}
