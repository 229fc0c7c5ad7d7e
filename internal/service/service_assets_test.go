package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock: blob.Store
// ─────────────────────────────────────────────

type mockBlobStore struct {
	uploadFn func(ctx context.Context, key string, contentType string, data []byte) (string, error)
	lastKey  string
}

func (m *mockBlobStore) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	m.lastKey = key
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, contentType, data)
	}
	return "http://store/" + key, nil
}

func (m *mockBlobStore) URL(key string) string {
	return "http://store/" + key
}

func TestUploadItemAsset_OwnerNamespacedKey(t *testing.T) {
	store := &mockBlobStore{}
	svc := NewAssetService(store, logger.Nop())

	url, err := svc.UploadItemAsset(context.Background(), 42, models.Asset{
		FileName:    "flour.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("img"),
	})
	require.NoError(t, err)

	assert.Equal(t, "pantryItems/42/flour.jpg", store.lastKey)
	assert.Equal(t, "http://store/pantryItems/42/flour.jpg", url)
}

func TestUploadAvatar_OwnerNamespacedKey(t *testing.T) {
	store := &mockBlobStore{}
	svc := NewAssetService(store, logger.Nop())

	url, err := svc.UploadAvatar(context.Background(), 7, models.Asset{
		FileName:    "me.png",
		ContentType: "image/png",
		Data:        []byte("img"),
	})
	require.NoError(t, err)

	assert.Equal(t, "avatars/7/me.png", store.lastKey)
	assert.Equal(t, "http://store/avatars/7/me.png", url)
}

func TestUploadItemAsset_Validation(t *testing.T) {
	tests := []struct {
		name    string
		asset   models.Asset
		wantErr error
	}{
		{"no file name", models.Asset{Data: []byte("img")}, ErrValidationNoAssetFileName},
		{"no data", models.Asset{FileName: "flour.jpg"}, ErrValidationNoAssetData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAssetService(&mockBlobStore{}, logger.Nop())
			_, err := svc.UploadItemAsset(context.Background(), 42, tt.asset)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUploadItemAsset_StoreFailure(t *testing.T) {
	store := &mockBlobStore{
		uploadFn: func(ctx context.Context, key string, contentType string, data []byte) (string, error) {
			return "", errors.New("access denied")
		},
	}
	svc := NewAssetService(store, logger.Nop())

	url, err := svc.UploadItemAsset(context.Background(), 42, models.Asset{
		FileName: "flour.jpg",
		Data:     []byte("img"),
	})

	require.Error(t, err)
	assert.Empty(t, url)
}
