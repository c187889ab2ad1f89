package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moncraft/portal/internal/client/api"
	"github.com/moncraft/portal/internal/client/models"
	"github.com/moncraft/portal/internal/client/services"
	"github.com/moncraft/portal/internal/client/session"
	"github.com/moncraft/portal/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// memCreds is an in-memory CredentialRepository.
type memCreds struct {
	mu    sync.Mutex
	value string
}

func (m *memCreds) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

func (m *memCreds) Save(ctx context.Context, credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = credential
	return nil
}

func (m *memCreds) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = ""
	return nil
}

// stubClient overrides the gateway methods a test cares about; calling
// anything else panics through the embedded nil interface.
type stubClient struct {
	api.Client
	loginFn func(ctx context.Context, username string) (*models.LoginResult, error)
	meFn    func(ctx context.Context) (*models.Identity, error)
}

func (s *stubClient) Login(ctx context.Context, username string) (*models.LoginResult, error) {
	return s.loginFn(ctx, username)
}

func (s *stubClient) Me(ctx context.Context) (*models.Identity, error) {
	return s.meFn(ctx)
}

func newAuth(client api.Client, creds session.CredentialRepository) (services.AuthService, *session.Store) {
	log := discardLogger()
	store := session.NewStore(creds, log)
	boot := session.NewBootstrapper(store, client.(session.IdentityResolver), log)
	return services.NewAuthService(client, store, boot, log), store
}

func loginResult(username string) *models.LoginResult {
	return &models.LoginResult{
		AccessToken: "tok-" + username,
		TokenType:   "bearer",
		User:        models.Identity{ID: "u1", Username: username},
	}
}

func TestLoginSuccess(t *testing.T) {
	creds := &memCreds{}
	client := &stubClient{
		loginFn: func(ctx context.Context, username string) (*models.LoginResult, error) {
			return loginResult(username), nil
		},
	}
	auth, store := newAuth(client, creds)

	id, err := auth.Login(context.Background(), "Steve")
	require.NoError(t, err)
	assert.Equal(t, "Steve", id.Username)

	got := store.Get()
	assert.True(t, got.Authenticated())
	assert.Equal(t, "tok-Steve", got.Credential)

	// The credential is durable as part of the same transition.
	stored, err := creds.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-Steve", stored)
}

func TestLoginSingleFlight(t *testing.T) {
	enter := make(chan struct{})
	release := make(chan struct{})
	client := &stubClient{
		loginFn: func(ctx context.Context, username string) (*models.LoginResult, error) {
			close(enter)
			<-release
			return loginResult(username), nil
		},
	}
	auth, _ := newAuth(client, &memCreds{})

	done := make(chan error, 1)
	go func() {
		_, err := auth.Login(context.Background(), "Steve")
		done <- err
	}()
	<-enter

	// A second attempt while the first is pending is rejected locally.
	_, err := auth.Login(context.Background(), "Alex")
	assert.ErrorIs(t, err, services.ErrLoginInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestLoginPossibleAgainAfterFailure(t *testing.T) {
	attempts := 0
	client := &stubClient{
		loginFn: func(ctx context.Context, username string) (*models.LoginResult, error) {
			attempts++
			if attempts == 1 {
				return nil, fmt.Errorf("%w: connection refused", api.ErrUnavailable)
			}
			return loginResult(username), nil
		},
	}
	auth, store := newAuth(client, &memCreds{})

	_, err := auth.Login(context.Background(), "Steve")
	require.ErrorIs(t, err, api.ErrUnavailable)

	// The in-flight latch is released on failure.
	id, err := auth.Login(context.Background(), "Steve")
	require.NoError(t, err)
	assert.Equal(t, "Steve", id.Username)
	assert.True(t, store.Get().Authenticated())
}

func TestLoginSupersededByLogout(t *testing.T) {
	var auth services.AuthService
	var store *session.Store

	client := &stubClient{}
	client.loginFn = func(ctx context.Context, username string) (*models.LoginResult, error) {
		// A logout lands while the request is on the wire.
		auth.Logout(ctx)
		return loginResult(username), nil
	}
	auth, store = newAuth(client, &memCreds{})

	_, err := auth.Login(context.Background(), "Steve")
	require.ErrorIs(t, err, services.ErrLoginSuperseded)
	assert.False(t, store.Get().Authenticated())
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	client := &stubClient{
		loginFn: func(ctx context.Context, username string) (*models.LoginResult, error) {
			return nil, fmt.Errorf("%w: Invalid Minecraft username", api.ErrValidation)
		},
	}
	auth, store := newAuth(client, &memCreds{})

	_, err := auth.Login(context.Background(), "x")
	require.ErrorIs(t, err, api.ErrValidation)
	assert.False(t, store.Get().Authenticated())

	// The typed error is available again for the next attempt.
	_, err = auth.Login(context.Background(), "y")
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestLogout(t *testing.T) {
	creds := &memCreds{}
	client := &stubClient{
		loginFn: func(ctx context.Context, username string) (*models.LoginResult, error) {
			return loginResult(username), nil
		},
	}
	auth, store := newAuth(client, creds)

	_, err := auth.Login(context.Background(), "Steve")
	require.NoError(t, err)

	auth.Logout(context.Background())
	assert.False(t, auth.Session().Authenticated())
	assert.False(t, store.Get().Authenticated())

	stored, err := creds.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestBootstrapDelegates(t *testing.T) {
	creds := &memCreds{value: "tok"}
	client := &stubClient{
		meFn: func(ctx context.Context) (*models.Identity, error) {
			return &models.Identity{ID: "u1", Username: "Steve"}, nil
		},
	}
	auth, _ := newAuth(client, creds)

	require.NoError(t, auth.Bootstrap(context.Background()))
	assert.True(t, auth.Session().Authenticated())
	assert.Equal(t, "Steve", auth.Session().Identity.Username)
}
