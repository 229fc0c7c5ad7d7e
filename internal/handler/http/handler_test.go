// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/service"
	"github.com/MKhiriev/go-pantry-keeper/internal/utils"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock AuthService
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerUserFn func(ctx context.Context, user models.User) (models.User, error)
	loginFn        func(ctx context.Context, user models.User) (models.User, error)
	createTokenFn  func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn   func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	if m.registerUserFn != nil {
		return m.registerUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockAuthService) Login(ctx context.Context, user models.User) (models.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, user)
	}
	return user, nil
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	if m.createTokenFn != nil {
		return m.createTokenFn(ctx, user)
	}
	return models.Token{SignedString: "signed.jwt.token"}, nil
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if m.parseTokenFn != nil {
		return m.parseTokenFn(ctx, tokenString)
	}
	return models.Token{UserID: 42}, nil
}

// ─────────────────────────────────────────────
// Mock ItemService
// ─────────────────────────────────────────────

type mockItemService struct {
	createFn    func(ctx context.Context, ownerID int64, draft models.ItemDraft) (models.Item, error)
	updateFn    func(ctx context.Context, ownerID int64, itemID string, patch models.ItemPatch) (models.Item, error)
	deleteFn    func(ctx context.Context, ownerID int64, itemID string) error
	snapshotFn  func(ctx context.Context, filter models.ItemFilter) (models.Snapshot, error)
	subscribeFn func(ownerID int64) (<-chan struct{}, func())
}

func (m *mockItemService) CreateItem(ctx context.Context, ownerID int64, draft models.ItemDraft) (models.Item, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, draft)
	}
	return models.Item{ID: "item-1", OwnerID: ownerID, Name: draft.Name}, nil
}

func (m *mockItemService) UpdateItem(ctx context.Context, ownerID int64, itemID string, patch models.ItemPatch) (models.Item, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, ownerID, itemID, patch)
	}
	return models.Item{ID: itemID, OwnerID: ownerID}, nil
}

func (m *mockItemService) DeleteItem(ctx context.Context, ownerID int64, itemID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, itemID)
	}
	return nil
}

func (m *mockItemService) Snapshot(ctx context.Context, filter models.ItemFilter) (models.Snapshot, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx, filter)
	}
	return models.Snapshot{Items: []models.Item{}}, nil
}

func (m *mockItemService) Subscribe(ownerID int64) (<-chan struct{}, func()) {
	if m.subscribeFn != nil {
		return m.subscribeFn(ownerID)
	}
	return make(chan struct{}), func() {}
}

// ─────────────────────────────────────────────
// Mock ProfileService
// ─────────────────────────────────────────────

type mockProfileService struct {
	getFn  func(ctx context.Context, userID int64) (models.Profile, error)
	saveFn func(ctx context.Context, profile models.Profile) (models.Profile, error)
}

func (m *mockProfileService) GetProfile(ctx context.Context, userID int64) (models.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return models.Profile{UserID: userID}, nil
}

func (m *mockProfileService) SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, profile)
	}
	return profile, nil
}

// ─────────────────────────────────────────────
// Mock AssetService
// ─────────────────────────────────────────────

type mockAssetService struct {
	uploadItemAssetFn func(ctx context.Context, ownerID int64, asset models.Asset) (string, error)
	uploadAvatarFn    func(ctx context.Context, ownerID int64, asset models.Asset) (string, error)
}

func (m *mockAssetService) UploadItemAsset(ctx context.Context, ownerID int64, asset models.Asset) (string, error) {
	if m.uploadItemAssetFn != nil {
		return m.uploadItemAssetFn(ctx, ownerID, asset)
	}
	return "http://store/pantryItems/42/" + asset.FileName, nil
}

func (m *mockAssetService) UploadAvatar(ctx context.Context, ownerID int64, asset models.Asset) (string, error) {
	if m.uploadAvatarFn != nil {
		return m.uploadAvatarFn(ctx, ownerID, asset)
	}
	return "http://store/avatars/42/" + asset.FileName, nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

type testServices struct {
	auth     *mockAuthService
	items    *mockItemService
	profiles *mockProfileService
	assets   *mockAssetService
}

func newTestHandler(t *testing.T, svcs testServices) *Handler {
	t.Helper()

	if svcs.auth == nil {
		svcs.auth = &mockAuthService{}
	}
	if svcs.items == nil {
		svcs.items = &mockItemService{}
	}
	if svcs.profiles == nil {
		svcs.profiles = &mockProfileService{}
	}
	if svcs.assets == nil {
		svcs.assets = &mockAssetService{}
	}

	return NewHandler(&service.Services{
		AuthService:    svcs.auth,
		ItemService:    svcs.items,
		ProfileService: svcs.profiles,
		AssetService:   svcs.assets,
	}, logger.Nop())
}

// jsonBody serialises v to a JSON request body string.
func jsonBody(t *testing.T, v any) *strings.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(b))
}

// withOwner places an authenticated user ID into the request context the
// same way the auth middleware does.
func withOwner(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, utils.UserIDCtxKey, ownerID)
}
