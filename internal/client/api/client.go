package api

import (
	"context"

	"github.com/moncraft/portal/internal/client/models"
)

// Client is the transport-agnostic contract of the portal backend.
// Every call the application makes to the backend flows through an
// implementation of this interface.
type Client interface {
	// Auth.
	Login(ctx context.Context, username string) (*models.LoginResult, error)
	Me(ctx context.Context) (*models.Identity, error)

	// Public reads.
	ServerStatus(ctx context.Context) (*models.ServerStatus, error)
	OnlinePlayers(ctx context.Context) (*models.PlayersOnline, error)
	ShopItems(ctx context.Context) ([]models.ShopItem, error)

	// Member operations.
	MyPurchases(ctx context.Context) ([]models.Purchase, error)
	PurchaseItem(ctx context.Context, itemID string) (*models.Purchase, error)

	// Admin operations.
	Users(ctx context.Context) ([]models.Identity, error)
	ToggleAdmin(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) error
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	UserActivity(ctx context.Context) ([]models.ActivityEntry, error)
	ServerLogs(ctx context.Context) ([]models.LogEntry, error)
	AdminPurchases(ctx context.Context) ([]models.Purchase, error)
}

// CredentialSource supplies the current bearer credential, if any.
// The session store implements it; the gateway never caches the value.
type CredentialSource interface {
	Credential() (string, bool)
}
