// Package session holds the client's proof of authentication: the bearer
// token plus the role and username returned at login. A session is either
// fully present or fully absent; route guarding and header injection must
// never observe a partial one.
package session

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the access level the backend assigned to the user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Session is the authenticated identity held by the client.
type Session struct {
	Token    string
	Role     Role
	Username string
}

// Valid reports whether the session is fully populated. Token, role and
// username are written and cleared together, so a partially filled session
// indicates a bug in the store, not a usable identity.
func (s Session) Valid() bool {
	return s.Token != "" && s.Role != "" && s.Username != ""
}

// ExpiresAt extracts the "exp" claim from the bearer token without verifying
// the signature — the client has no key material and only needs the value
// for display and proactive re-login. Returns the zero time when the token
// is not a JWT or carries no expiry.
func (s Session) ExpiresAt() (expiresAt int64) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return exp.Unix()
}

// Store persists the session between client runs.
//
// Contract:
//   - Get returns a zero Session (Valid() == false) when no session exists.
//   - Set writes token, role and username atomically.
//   - Clear removes all three keys atomically; clearing an empty store is
//     a no-op.
type Store interface {
	Get(ctx context.Context) (Session, error)
	Set(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}
