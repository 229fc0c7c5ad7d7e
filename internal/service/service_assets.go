package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pantry-keeper/internal/blob"
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/models"
)

// assetService is the concrete implementation of [AssetService]. It stores
// binaries in the object store under per-owner keys and returns the final
// retrieval URL; record writes that reference the URL happen elsewhere and
// only after the upload succeeded.
type assetService struct {
	blobStore blob.Store
	logger    *logger.Logger
}

// NewAssetService constructs an [AssetService] on top of the given blob
// store.
func NewAssetService(blobStore blob.Store, logger *logger.Logger) AssetService {
	return &assetService{
		blobStore: blobStore,
		logger:    logger,
	}
}

// UploadItemAsset stores an item image under the owner's namespace and
// returns its retrieval URL.
func (s *assetService) UploadItemAsset(ctx context.Context, ownerID int64, asset models.Asset) (string, error) {
	if err := validateAsset(asset); err != nil {
		return "", err
	}

	url, err := s.blobStore.Upload(ctx, blob.ItemAssetKey(ownerID, asset.FileName), asset.ContentType, asset.Data)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Int64("owner_id", ownerID).
			Str("file_name", asset.FileName).
			Msg("item asset upload ended with error")
		return "", fmt.Errorf("item asset upload ended with error: %w", err)
	}

	return url, nil
}

// UploadAvatar stores a profile avatar under the owner's namespace and
// returns its retrieval URL.
func (s *assetService) UploadAvatar(ctx context.Context, ownerID int64, asset models.Asset) (string, error) {
	if err := validateAsset(asset); err != nil {
		return "", err
	}

	url, err := s.blobStore.Upload(ctx, blob.AvatarKey(ownerID, asset.FileName), asset.ContentType, asset.Data)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Int64("owner_id", ownerID).
			Str("file_name", asset.FileName).
			Msg("avatar upload ended with error")
		return "", fmt.Errorf("avatar upload ended with error: %w", err)
	}

	return url, nil
}

func validateAsset(asset models.Asset) error {
	if asset.FileName == "" {
		return ErrValidationNoAssetFileName
	}
	if len(asset.Data) == 0 {
		return ErrValidationNoAssetData
	}
	return nil
}
