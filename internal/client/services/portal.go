package services

import (
	"context"

	"github.com/moncraft/portal/internal/client/api"
	"github.com/moncraft/portal/internal/client/models"
)

// PortalService exposes the data reads the views render. It is a thin layer
// over the gateway; errors (including the typed sentinel errors) pass through
// untouched so each view can display its own failure state.
type PortalService interface {
	ServerStatus(ctx context.Context) (*models.ServerStatus, error)
	ShopItems(ctx context.Context) ([]models.ShopItem, error)
	Buy(ctx context.Context, itemID string) (*models.Purchase, error)
	MyPurchases(ctx context.Context) ([]models.Purchase, error)

	Users(ctx context.Context) ([]models.Identity, error)
	ToggleAdmin(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) error
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	UserActivity(ctx context.Context) ([]models.ActivityEntry, error)
	ServerLogs(ctx context.Context) ([]models.LogEntry, error)
	AdminPurchases(ctx context.Context) ([]models.Purchase, error)
}

type portalService struct {
	client api.Client
}

// NewPortalService binds the portal reads to the gateway.
func NewPortalService(client api.Client) PortalService {
	return &portalService{client: client}
}

func (p *portalService) ServerStatus(ctx context.Context) (*models.ServerStatus, error) {
	return p.client.ServerStatus(ctx)
}

func (p *portalService) ShopItems(ctx context.Context) ([]models.ShopItem, error) {
	return p.client.ShopItems(ctx)
}

func (p *portalService) Buy(ctx context.Context, itemID string) (*models.Purchase, error) {
	return p.client.PurchaseItem(ctx, itemID)
}

func (p *portalService) MyPurchases(ctx context.Context) ([]models.Purchase, error) {
	return p.client.MyPurchases(ctx)
}

func (p *portalService) Users(ctx context.Context) ([]models.Identity, error) {
	return p.client.Users(ctx)
}

func (p *portalService) ToggleAdmin(ctx context.Context, userID string) error {
	return p.client.ToggleAdmin(ctx, userID)
}

func (p *portalService) DeleteUser(ctx context.Context, userID string) error {
	return p.client.DeleteUser(ctx, userID)
}

func (p *portalService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	return p.client.AdminStats(ctx)
}

func (p *portalService) UserActivity(ctx context.Context) ([]models.ActivityEntry, error) {
	return p.client.UserActivity(ctx)
}

func (p *portalService) ServerLogs(ctx context.Context) ([]models.LogEntry, error) {
	return p.client.ServerLogs(ctx)
}

func (p *portalService) AdminPurchases(ctx context.Context) ([]models.Purchase, error) {
	return p.client.AdminPurchases(ctx)
}
