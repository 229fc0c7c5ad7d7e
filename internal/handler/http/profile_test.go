package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-pantry-keeper/internal/store"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile_Success(t *testing.T) {
	profiles := &mockProfileService{
		getFn: func(_ context.Context, userID int64) (models.Profile, error) {
			require.Equal(t, int64(42), userID)
			return models.Profile{UserID: userID, FirstName: "Jane"}, nil
		},
	}
	h := newTestHandler(t, testServices{profiles: profiles})

	req := httptest.NewRequest(http.MethodGet, "/api/profile/", nil)
	req = req.WithContext(withOwner(req.Context(), 42))
	rec := httptest.NewRecorder()

	h.getProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Jane", profile.FirstName)
}

func TestGetProfile_NotFound(t *testing.T) {
	profiles := &mockProfileService{
		getFn: func(_ context.Context, _ int64) (models.Profile, error) {
			return models.Profile{}, store.ErrProfileNotFound
		},
	}
	h := newTestHandler(t, testServices{profiles: profiles})

	req := httptest.NewRequest(http.MethodGet, "/api/profile/", nil)
	req = req.WithContext(withOwner(req.Context(), 42))
	rec := httptest.NewRecorder()

	h.getProfile(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveProfile_OwnerIsPinnedFromSession(t *testing.T) {
	var saved models.Profile
	profiles := &mockProfileService{
		saveFn: func(_ context.Context, profile models.Profile) (models.Profile, error) {
			saved = profile
			return profile, nil
		},
	}
	h := newTestHandler(t, testServices{profiles: profiles})

	// the body claims a different user; the session must win
	req := httptest.NewRequest(http.MethodPut, "/api/profile/", jsonBody(t, models.Profile{
		UserID: 999,
		Bio:    "Keeps a tidy pantry",
	}))
	req = req.WithContext(withOwner(req.Context(), 42))
	rec := httptest.NewRecorder()

	h.saveProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), saved.UserID)
	assert.Equal(t, "Keeps a tidy pantry", saved.Bio)
}

func TestSaveProfile_InvalidJSON(t *testing.T) {
	h := newTestHandler(t, testServices{})

	req := httptest.NewRequest(http.MethodPut, "/api/profile/", nil)
	req = req.WithContext(withOwner(req.Context(), 42))
	rec := httptest.NewRecorder()

	h.saveProfile(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
