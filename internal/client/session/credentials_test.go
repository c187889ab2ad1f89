package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moncraft/portal/internal/client/session"
)

// fakeMetadata is an in-memory metadata.Repository.
type fakeMetadata struct {
	kv map[string][]byte
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{kv: make(map[string][]byte)}
}

func (f *fakeMetadata) Get(ctx context.Context, key string) ([]byte, error) {
	return f.kv[key], nil
}

func (f *fakeMetadata) Set(ctx context.Context, key string, value []byte) error {
	f.kv[key] = value
	return nil
}

func (f *fakeMetadata) Delete(ctx context.Context, key string) error {
	delete(f.kv, key)
	return nil
}

func (f *fakeMetadata) List(ctx context.Context) (map[string][]byte, error) {
	return f.kv, nil
}

func (f *fakeMetadata) Clear(ctx context.Context) error {
	f.kv = make(map[string][]byte)
	return nil
}

func TestMetadataCredentialsRoundTrip(t *testing.T) {
	ctx := context.Background()
	creds := session.NewMetadataCredentials(newFakeMetadata())

	// Missing key reads as logged out, not as an error.
	v, err := creds.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, creds.Save(ctx, "tok"))
	v, err = creds.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", v)

	require.NoError(t, creds.Delete(ctx))
	v, err = creds.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, v)

	// Delete on an already-empty store stays silent.
	require.NoError(t, creds.Delete(ctx))
}
