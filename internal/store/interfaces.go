package store

import (
	"context"

	"github.com/MKhiriev/go-pantry-keeper/models"
)

// UserRepository persists user accounts and resolves login credentials.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
}

// ProfileRepository persists the single per-user profile record.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID int64) (models.Profile, error)
	SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
}

// ItemRepository persists pantry items scoped by owner.
type ItemRepository interface {
	CreateItem(ctx context.Context, item models.Item) (models.Item, error)
	UpdateItem(ctx context.Context, ownerID int64, itemID string, patch models.ItemPatch) (models.Item, error)
	DeleteItem(ctx context.Context, ownerID int64, itemID string) error
	GetItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
}
