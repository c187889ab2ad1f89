// Package session owns the client's session state: the persisted credential,
// the resolved identity, and the resolution lifecycle. All transitions go
// through the Store; no other component mutates session state.
package session

import "github.com/moncraft/portal/internal/client/models"

// State is the resolution state of the session.
type State int

const (
	// Resolved means the session is settled: either authenticated or empty.
	Resolved State = iota
	// Resolving means a persisted credential is being exchanged for an
	// identity. Views must treat this as "unknown", not "logged out".
	Resolving
)

func (s State) String() string {
	if s == Resolving {
		return "resolving"
	}
	return "resolved"
}

// Session is an immutable snapshot of the current session.
//
// Invariant: Identity != nil implies Credential != "". A credential without
// an identity is valid only while State == Resolving.
type Session struct {
	Credential string
	Identity   *models.Identity
	State      State
}

// Authenticated reports whether the session holds a resolved identity.
func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// IsAdmin reports whether the session holds an admin identity.
func (s Session) IsAdmin() bool {
	return s.Identity != nil && s.Identity.IsAdmin
}
