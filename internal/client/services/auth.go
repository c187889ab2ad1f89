// Package services contains the application services sitting between the
// REPL views and the gateway: authentication (login/logout/bootstrap) and
// portal data reads.
package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/moncraft/portal/internal/client/api"
	"github.com/moncraft/portal/internal/client/models"
	"github.com/moncraft/portal/internal/client/session"
	"github.com/moncraft/portal/internal/logging"
)

var (
	// ErrLoginInFlight is returned when a second login attempt is made while
	// one is already pending. The backend provisions accounts on first login,
	// so duplicate concurrent attempts are rejected locally before they can
	// race server-side.
	ErrLoginInFlight = errors.New("login already in progress")

	// ErrLoginSuperseded is returned when a login completed successfully but
	// the session had transitioned in the meantime (e.g. a logout), so its
	// result was discarded.
	ErrLoginSuperseded = errors.New("login superseded by a newer session transition")
)

// AuthService is the application's auth context: it exposes the session
// snapshot plus the login/logout/bootstrap operations to the view layer.
type AuthService interface {
	// Bootstrap resolves the persisted credential once at startup.
	Bootstrap(ctx context.Context) error
	// Login authenticates the given game username. At most one attempt is in
	// flight at a time; concurrent calls fail with ErrLoginInFlight.
	Login(ctx context.Context, username string) (*models.Identity, error)
	// Logout clears the session locally. It never requires a network
	// round-trip and always succeeds from the caller's perspective.
	Logout(ctx context.Context)
	// Session returns the current session snapshot.
	Session() session.Session
}

type authService struct {
	client api.Client
	store  *session.Store
	boot   *session.Bootstrapper
	log    logging.Logger

	loginInFlight atomic.Bool
}

// NewAuthService wires the auth context to the gateway and the session store.
func NewAuthService(client api.Client, store *session.Store, boot *session.Bootstrapper, log logging.Logger) AuthService {
	return &authService{client: client, store: store, boot: boot, log: log}
}

func (a *authService) Bootstrap(ctx context.Context) error {
	return a.boot.Run(ctx)
}

func (a *authService) Session() session.Session {
	return a.store.Get()
}

// Login exchanges a game username for a credential and identity. On success
// both are installed in the session store atomically; on failure the session
// is left untouched and the gateway's typed error is returned as-is for
// inline display at the login view.
func (a *authService) Login(ctx context.Context, username string) (*models.Identity, error) {
	if !a.loginInFlight.CompareAndSwap(false, true) {
		return nil, ErrLoginInFlight
	}
	defer a.loginInFlight.Store(false)

	gen := a.store.Generation()

	res, err := a.client.Login(ctx, username)
	if err != nil {
		return nil, err
	}

	identity := res.User
	installed, err := a.store.SetAuthenticatedIf(ctx, gen, res.AccessToken, &identity)
	if err != nil {
		return nil, err
	}
	if !installed {
		return nil, ErrLoginSuperseded
	}

	a.log.Info(ctx, "logged in", "username", identity.Username, "admin", identity.IsAdmin)
	return &identity, nil
}

// Logout funnels into the store's Clear, the single choke point shared with
// the gateway's unauthorized hook and bootstrap failure.
func (a *authService) Logout(ctx context.Context) {
	if err := a.store.Clear(ctx); err != nil {
		// The in-memory session is gone either way; the stored credential
		// could not be erased and will be rejected at next bootstrap.
		a.log.Warn(ctx, "failed to erase persisted credential", "err", err)
	}
	a.log.Info(ctx, "logged out")
}
