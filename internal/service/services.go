package service

import (
	"github.com/MKhiriev/go-pantry-keeper/internal/blob"
	"github.com/MKhiriev/go-pantry-keeper/internal/config"
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/store"
)

type Services struct {
	AuthService    AuthService
	ItemService    ItemService
	ProfileService ProfileService
	AssetService   AssetService
}

func NewServices(storages *store.Storages, blobStore blob.Store, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, storages.ProfileRepository, cfg.App, logger),
		ItemService:    NewItemService(storages.ItemRepository, storages.Hub, logger),
		ProfileService: NewProfileService(storages.ProfileRepository, logger),
		AssetService:   NewAssetService(blobStore, logger),
	}
}
