// Package cli implements the interactive terminal client: a REPL whose
// commands navigate between portal views. Navigation is gated by the route
// guard; data panels fetch through the authenticated gateway and display
// their own failures without ending the loop.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/moncraft/portal/internal/client/api"
	"github.com/moncraft/portal/internal/client/config"
	"github.com/moncraft/portal/internal/client/services"
	"github.com/moncraft/portal/internal/client/session"
	"github.com/moncraft/portal/internal/client/store"
	"github.com/moncraft/portal/internal/logging"
)

// App owns the wired-up client: session store, gateway, services, and the
// REPL's I/O.
type App struct {
	config *config.Config
	auth   services.AuthService
	portal services.PortalService
	repos  *store.Repositories
	log    logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the full client from configuration: local database, session
// store with durable credential persistence, HTTP gateway with the
// unauthorized hook wired to the store, and the services on top.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	repos, err := store.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing local database", "err", err)
		return nil, err
	}

	creds := session.NewMetadataCredentials(repos.Metadata)
	sessions := session.NewStore(creds, log)

	client := api.NewHTTPClient(
		cfg.ServerBaseURL,
		sessions,
		cfg.RequestTimeout,
		log,
		api.WithUnauthorizedHook(func() {
			// Forced logout: the backend rejected the credential on some
			// call; the store converges to the cleared state no matter
			// which view triggered the request.
			_ = sessions.Clear(context.Background())
		}),
	)

	boot := session.NewBootstrapper(sessions, client, log)

	return &App{
		config: cfg,
		auth:   services.NewAuthService(client, sessions, boot, log),
		portal: services.NewPortalService(client),
		repos:  repos,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run bootstraps the session and enters the REPL. It returns when the user
// exits or stdin is closed.
func (a *App) Run(ctx context.Context) error {
	defer a.repos.Close()

	if err := a.auth.Bootstrap(ctx); err != nil {
		// A failed bootstrap degrades to a logged-out session; the client
		// is still usable.
		a.log.Warn(ctx, "session bootstrap error", "err", err)
	}

	a.Root(ctx)
	return nil
}
