package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pharmtrack/pharmtrack/internal/client/api"
	"github.com/pharmtrack/pharmtrack/internal/common"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login prompts the user for credentials and authenticates against the
// backend. On success the session is persisted locally and the recovery
// verifier for that username is refreshed.
//
// A network failure switches the app to offline mode; authentication errors
// are reported with the backend's own message. The password byte slice is
// securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getSecret(os.Stdout, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.authService.Login(ctx, userName, string(password))
	if err != nil {
		if api.IsKind(err, api.KindNetwork) {
			log.Printf("Server unreachable: %s", err.Error())
			a.setMode(ModeOffline)
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	log.Printf("Logged in as %s (%s)", sess.Username, sess.Role)
	a.setMode(ModeOnline)
	return nil
}

// Logout destroys the local session. The recovery cache stays on the device
// so the PIN flow keeps working after logout.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// Signup prompts for a username, password, and role and creates the account
// via the backend. The backend enforces that only admins may call this.
func (a *App) Signup(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "New account username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getSecret(os.Stdout, "New account password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	fullName, err := getSimpleText(a.reader, "Full name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Role (staff/admin)", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.authService.Signup(ctx, api.NewUser{
		Username: userName,
		FullName: fullName,
		Email:    email,
		Password: string(password),
		Role:     role,
	})
	if err != nil {
		log.Printf("Signup unsuccessful: %s", err.Error())
		return err
	}

	fmt.Printf("Created account %s (%s)\n", user.Username, user.Role)
	return nil
}

// WhoAmI prints the current session: username, role, and token expiry when
// the token carries one.
func (a *App) WhoAmI(ctx context.Context) error {
	sess, err := a.authService.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if !sess.Valid() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("Logged in as %s (%s)\n", sess.Username, sess.Role)
	if exp := sess.ExpiresAt(); exp > 0 {
		fmt.Printf("Session expires at %s\n", time.Unix(exp, 0).Format(time.RFC3339))
	}
	return nil
}
