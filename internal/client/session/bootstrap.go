package session

import (
	"context"
	"errors"
	"sync"

	"github.com/moncraft/portal/internal/client/api"
	"github.com/moncraft/portal/internal/client/models"
	"github.com/moncraft/portal/internal/logging"
)

// IdentityResolver is the slice of the gateway the bootstrapper needs.
type IdentityResolver interface {
	Me(ctx context.Context) (*models.Identity, error)
}

// Bootstrapper resolves the persisted credential into a verified identity
// exactly once, at process start, before the first identity-dependent render.
type Bootstrapper struct {
	store    *Store
	resolver IdentityResolver
	log      logging.Logger
	once     sync.Once
}

// NewBootstrapper wires the bootstrapper to the store it settles and the
// resolver it verifies credentials with.
func NewBootstrapper(store *Store, resolver IdentityResolver, log logging.Logger) *Bootstrapper {
	return &Bootstrapper{store: store, resolver: resolver, log: log}
}

// Run performs the one-shot session bootstrap. Subsequent calls are no-ops.
//
// With no persisted credential the session is already Resolved/empty and
// nothing happens. With a persisted credential the store enters Resolving and
// the credential is exchanged for an identity through the gateway:
//
//   - success: the session becomes authenticated;
//   - credential rejected: the session and the stored credential are cleared
//     (the gateway's unauthorized hook has usually done this already, and
//     Clear is idempotent);
//   - any other failure: the session resolves to logged-out for this process,
//     but the stored credential is kept so a restart with connectivity can
//     still recover the session.
//
// Either way the session always ends Resolved; gated views defer their
// redirect decisions only while Run is in flight.
func (b *Bootstrapper) Run(ctx context.Context) error {
	var err error
	b.once.Do(func() { err = b.run(ctx) })
	return err
}

func (b *Bootstrapper) run(ctx context.Context) error {
	credential, err := b.store.creds.Load(ctx)
	if err != nil {
		return err
	}
	if credential == "" {
		b.log.Debug(ctx, "no persisted credential, starting logged out")
		return nil
	}

	gen := b.store.BeginResolving(credential)

	identity, err := b.resolver.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			b.log.Info(ctx, "persisted credential rejected, session cleared")
			return b.store.Clear(ctx)
		}
		b.log.Warn(ctx, "session bootstrap failed, keeping stored credential", "err", err)
		b.store.EndResolvingIf(ctx, gen)
		return nil
	}

	installed, err := b.store.SetAuthenticatedIf(ctx, gen, credential, identity)
	if err != nil {
		return err
	}
	if installed {
		b.log.Info(ctx, "session restored", "username", identity.Username, "admin", identity.IsAdmin)
	}
	return nil
}
