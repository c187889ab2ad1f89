package session

import (
	"context"

	"github.com/moncraft/portal/internal/client/repositories/metadata"
)

// credentialKey is the fixed key the bearer credential is stored under in the
// local metadata table. Its absence means logged out.
const credentialKey = "credential"

// MetadataCredentials is the CredentialRepository over the sqlite-backed
// metadata repository.
type MetadataCredentials struct {
	repo metadata.Repository
}

func NewMetadataCredentials(repo metadata.Repository) *MetadataCredentials {
	return &MetadataCredentials{repo: repo}
}

// Load returns the stored credential, or "" when none is stored.
func (c *MetadataCredentials) Load(ctx context.Context) (string, error) {
	v, err := c.repo.Get(ctx, credentialKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (c *MetadataCredentials) Save(ctx context.Context, credential string) error {
	return c.repo.Set(ctx, credentialKey, []byte(credential))
}

func (c *MetadataCredentials) Delete(ctx context.Context) error {
	return c.repo.Delete(ctx, credentialKey)
}
