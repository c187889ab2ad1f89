package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/moncraft/portal/internal/client/api"
	"github.com/moncraft/portal/internal/client/services"
)

// getSimpleText is an indirection used to facilitate testing.
var getSimpleText = GetSimpleText

// Login prompts for a game username and authenticates it. Failures are
// shown inline and never mutate the session:
//
//   - validation errors (unknown username per backend policy) are displayed
//     with the backend's detail text;
//   - an unreachable backend suggests retrying;
//   - a concurrent pending login is reported without contacting the backend.
func (a *App) Login(ctx context.Context) {
	if a.auth.Session().Authenticated() {
		fmt.Fprintln(a.out, "Already logged in as", a.auth.Session().Identity.Username)
		return
	}

	username, err := getSimpleText(a.reader, "Enter your Minecraft username", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "Could not read username:", err)
		return
	}
	if username == "" {
		fmt.Fprintln(a.out, "Username must not be empty")
		return
	}

	identity, err := a.auth.Login(ctx, username)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Welcome, %s!\n", identity.Username)
	case errors.Is(err, services.ErrLoginInFlight):
		fmt.Fprintln(a.out, "A login attempt is already in progress")
	case errors.Is(err, api.ErrValidation):
		fmt.Fprintln(a.out, "Login rejected:", err)
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "Cannot reach the server, please try again:", err)
	default:
		fmt.Fprintln(a.out, "Login failed:", err)
	}
}

// Logout clears the session locally; no network round-trip is needed.
func (a *App) Logout(ctx context.Context) {
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
}
