package router

import "github.com/moncraft/portal/internal/client/session"

// Action is the guard's verdict kind.
type Action int

const (
	// Allow renders the target.
	Allow Action = iota
	// Defer renders a neutral pending state: the session is still resolving
	// and may yet turn out to satisfy the requirement. Committing to a
	// redirect here would flash the logged-out state on reload.
	Defer
	// Redirect sends the user to Decision.Target instead.
	Redirect
)

// Decision is the guard's verdict for one (session, requirement) pair.
type Decision struct {
	Action Action
	Target Route
}

// Decide is a pure function mapping the current session and a route
// requirement to a verdict:
//
//	requirement | Resolving | no identity        | member             | admin
//	Public      | Allow     | Allow              | Allow              | Allow
//	MemberOnly  | Defer     | Redirect(login)    | Allow              | Allow
//	AdminOnly   | Defer     | Redirect(home)     | Redirect(home)     | Allow
func Decide(s session.Session, req Requirement) Decision {
	if req == Public {
		return Decision{Action: Allow}
	}
	if s.State == session.Resolving {
		return Decision{Action: Defer}
	}

	switch req {
	case MemberOnly:
		if s.Authenticated() {
			return Decision{Action: Allow}
		}
		return Decision{Action: Redirect, Target: RouteLogin}
	case AdminOnly:
		if s.IsAdmin() {
			return Decision{Action: Allow}
		}
		return Decision{Action: Redirect, Target: RouteHome}
	default:
		return Decision{Action: Allow}
	}
}
