package session_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moncraft/portal/internal/client/api"
	"github.com/moncraft/portal/internal/client/models"
	"github.com/moncraft/portal/internal/client/session"
)

// fakeResolver stands in for the gateway's identity endpoint.
type fakeResolver struct {
	identity *models.Identity
	err      error
	calls    int
	onCall   func()
}

func (f *fakeResolver) Me(ctx context.Context) (*models.Identity, error) {
	f.calls++
	if f.onCall != nil {
		f.onCall()
	}
	return f.identity, f.err
}

func TestBootstrapNoStoredCredential(t *testing.T) {
	creds := &fakeCreds{}
	store := session.NewStore(creds, discardLogger())
	resolver := &fakeResolver{}

	notifications := 0
	store.Subscribe(func(session.Session) { notifications++ })

	b := session.NewBootstrapper(store, resolver, discardLogger())
	require.NoError(t, b.Run(context.Background()))

	// Nothing to resolve: no network call, no transition.
	assert.Equal(t, 0, resolver.calls)
	assert.Equal(t, 0, notifications)
	assert.Equal(t, session.Resolved, store.Get().State)
	assert.False(t, store.Get().Authenticated())
}

func TestBootstrapValidCredential(t *testing.T) {
	creds := &fakeCreds{value: "tok"}
	store := session.NewStore(creds, discardLogger())
	resolver := &fakeResolver{identity: steve()}

	var states []session.State
	store.Subscribe(func(s session.Session) { states = append(states, s.State) })

	b := session.NewBootstrapper(store, resolver, discardLogger())
	require.NoError(t, b.Run(context.Background()))

	got := store.Get()
	assert.True(t, got.Authenticated())
	assert.Equal(t, "tok", got.Credential)
	assert.Equal(t, "Steve", got.Identity.Username)

	// The store passed through Resolving before settling.
	assert.Equal(t, []session.State{session.Resolving, session.Resolved}, states)
}

func TestBootstrapCredentialRejected(t *testing.T) {
	creds := &fakeCreds{value: "stale"}
	store := session.NewStore(creds, discardLogger())
	resolver := &fakeResolver{err: fmt.Errorf("%w: invalid token", api.ErrUnauthorized)}

	b := session.NewBootstrapper(store, resolver, discardLogger())
	require.NoError(t, b.Run(context.Background()))

	// Rejection is the one failure that erases the stored credential.
	assert.False(t, store.Get().Authenticated())
	assert.Equal(t, session.Resolved, store.Get().State)
	assert.Empty(t, creds.stored())
}

func TestBootstrapTransportFailureKeepsCredential(t *testing.T) {
	creds := &fakeCreds{value: "tok"}
	store := session.NewStore(creds, discardLogger())
	resolver := &fakeResolver{err: fmt.Errorf("%w: connection refused", api.ErrUnavailable)}

	b := session.NewBootstrapper(store, resolver, discardLogger())
	require.NoError(t, b.Run(context.Background()))

	// Logged out for this run, but the credential survives for the next one.
	got := store.Get()
	assert.False(t, got.Authenticated())
	assert.Equal(t, session.Resolved, got.State)
	assert.Empty(t, got.Credential)
	assert.Equal(t, "tok", creds.stored())
	assert.Equal(t, 0, creds.deletes)
}

func TestBootstrapRunsOnce(t *testing.T) {
	creds := &fakeCreds{value: "tok"}
	store := session.NewStore(creds, discardLogger())
	resolver := &fakeResolver{identity: steve()}

	b := session.NewBootstrapper(store, resolver, discardLogger())
	require.NoError(t, b.Run(context.Background()))
	require.NoError(t, b.Run(context.Background()))

	assert.Equal(t, 1, resolver.calls)
}

func TestBootstrapLoadFailure(t *testing.T) {
	boom := errors.New("database closed")
	creds := &fakeCreds{loadErr: boom}
	store := session.NewStore(creds, discardLogger())
	resolver := &fakeResolver{}

	b := session.NewBootstrapper(store, resolver, discardLogger())
	require.ErrorIs(t, b.Run(context.Background()), boom)
	assert.Equal(t, 0, resolver.calls)
}

func TestBootstrapClearedWhileResolving(t *testing.T) {
	creds := &fakeCreds{value: "tok"}
	store := session.NewStore(creds, discardLogger())

	// The unauthorized hook fires Clear while the identity call is in flight;
	// the successful result that follows must be discarded.
	resolver := &fakeResolver{identity: steve()}
	resolver.onCall = func() { _ = store.Clear(context.Background()) }

	b := session.NewBootstrapper(store, resolver, discardLogger())
	require.NoError(t, b.Run(context.Background()))

	assert.False(t, store.Get().Authenticated())
	assert.Equal(t, session.Resolved, store.Get().State)
}
