package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moncraft/portal/internal/client/api"
	"github.com/moncraft/portal/internal/client/models"
	"github.com/moncraft/portal/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// staticCreds is a CredentialSource returning a fixed token.
type staticCreds struct {
	token string
}

func (s staticCreds) Credential() (string, bool) {
	return s.token, s.token != ""
}

func newClient(t *testing.T, handler http.Handler, creds api.CredentialSource, opts ...api.Option) *api.HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.NewHTTPClient(srv.URL+"/api", creds, 5*time.Second, discardLogger(), opts...)
}

func TestClientAttachesBearer(t *testing.T) {
	var gotAuth string
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(models.Identity{ID: "u1", Username: "Steve"})
	}), staticCreds{token: "tok"})

	id, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "Steve", id.Username)
}

func TestClientOmitsBearerWhenAnonymous(t *testing.T) {
	var gotAuth string
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(models.ServerStatus{PlayersOnline: 3})
	}), staticCreds{})

	st, err := c.ServerStatus(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, 3, st.PlayersOnline)
}

func errorHandler(status int, detail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
	})
}

func TestClientUnauthorizedFiresHook(t *testing.T) {
	hookCalls := 0
	c := newClient(t, errorHandler(http.StatusUnauthorized, "Invalid token"),
		staticCreds{token: "stale"},
		api.WithUnauthorizedHook(func() { hookCalls++ }))

	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Contains(t, err.Error(), "Invalid token")
	assert.Equal(t, 1, hookCalls)
}

func TestClientForbiddenLeavesSessionAlone(t *testing.T) {
	hookCalls := 0
	c := newClient(t, errorHandler(http.StatusForbidden, "Admin access required"),
		staticCreds{token: "tok"},
		api.WithUnauthorizedHook(func() { hookCalls++ }))

	_, err := c.Users(context.Background())
	require.ErrorIs(t, err, api.ErrForbidden)
	assert.Equal(t, 0, hookCalls)
}

func TestClientStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"validation", http.StatusBadRequest, api.ErrValidation},
		{"not found", http.StatusNotFound, api.ErrNotFound},
		{"bad gateway", http.StatusBadGateway, api.ErrUnavailable},
		{"unavailable", http.StatusServiceUnavailable, api.ErrUnavailable},
		{"gateway timeout", http.StatusGatewayTimeout, api.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, errorHandler(tt.status, "nope"), staticCreds{})
			_, err := c.ShopItems(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := api.NewHTTPClient(url+"/api", staticCreds{}, time.Second, discardLogger())
	_, err := c.ServerStatus(context.Background())
	assert.ErrorIs(t, err, api.ErrUnavailable)
}

func TestClientErrorWithoutDetailBody(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), staticCreds{})

	_, err := c.PurchaseItem(context.Background(), "vip-rank")
	require.ErrorIs(t, err, api.ErrNotFound)
	assert.Contains(t, err.Error(), http.StatusText(http.StatusNotFound))
}

func TestClientLogin(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var req struct {
			Username string `json:"minecraft_username"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Steve", req.Username)

		_ = json.NewEncoder(w).Encode(models.LoginResult{
			AccessToken: "tok",
			TokenType:   "bearer",
			User:        models.Identity{ID: "u1", Username: "Steve"},
		})
	}), staticCreds{})

	res, err := c.Login(context.Background(), "Steve")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)
	assert.Equal(t, "Steve", res.User.Username)
}

func TestClientNeverRetries(t *testing.T) {
	calls := 0
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}), staticCreds{})

	_, err := c.ServerStatus(context.Background())
	require.ErrorIs(t, err, api.ErrUnavailable)
	assert.Equal(t, 1, calls)
}

func TestClientContextCancellation(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}), staticCreds{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ServerStatus(ctx)
	require.Error(t, err)
}
