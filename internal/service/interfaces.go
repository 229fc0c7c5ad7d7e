package service

import (
	"context"

	"github.com/MKhiriev/go-pantry-keeper/models"
)

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// ItemService owns the pantry-item lifecycle: validation, persistence and
// change notification. Every operation is scoped to the calling owner.
type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, draft models.ItemDraft) (models.Item, error)
	UpdateItem(ctx context.Context, ownerID int64, itemID string, patch models.ItemPatch) (models.Item, error)
	DeleteItem(ctx context.Context, ownerID int64, itemID string) error

	// Snapshot returns the complete current record set matching the filter.
	Snapshot(ctx context.Context, filter models.ItemFilter) (models.Snapshot, error)

	// Subscribe registers a change-signal channel for the owner's record
	// set. The returned cancel function must be called when the consumer
	// goes away; it is safe to call more than once.
	Subscribe(ownerID int64) (<-chan struct{}, func())
}

// ProfileService owns the per-user profile record.
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (models.Profile, error)
	SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
}

// AssetService uploads binary assets and hands back their retrieval URLs.
// Uploads never touch the record store: the caller decides what to do with
// the URL once the upload has definitely succeeded.
type AssetService interface {
	UploadItemAsset(ctx context.Context, ownerID int64, asset models.Asset) (string, error)
	UploadAvatar(ctx context.Context, ownerID int64, asset models.Asset) (string, error)
}
