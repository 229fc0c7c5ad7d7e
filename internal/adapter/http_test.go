// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-pantry-keeper/internal/config"
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/utils"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, server *httptest.Server) ServerAdapter {
	t.Helper()

	a, err := NewHTTPServerAdapter(config.ClientAdapter{
		HTTPAddress:    server.URL,
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)

	return a
}

// issueToken builds a real signed JWT so that the adapter can extract the
// user ID from its subject claim.
func issueToken(t *testing.T, userID int64) string {
	t.Helper()

	token, err := utils.GenerateJWTToken("pantry-keeper-test", userID, time.Hour, "test-sign-key")
	require.NoError(t, err)
	return token.SignedString
}

func TestNewHTTPServerAdapter_InvalidAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: ""}, logger.Nop())
	assert.Error(t, err)
}

func TestRegister_StoresTokenAndUserID(t *testing.T) {
	signed := issueToken(t, 42)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)

		var user models.User
		require.NoError(t, json.NewDecoder(r.Body).Decode(&user))
		require.Equal(t, "alice@example.com", user.Email)

		w.Header().Set("Authorization", "Bearer "+signed)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	a := newTestAdapter(t, server)

	registered, err := a.Register(context.Background(), models.User{
		Email:    "alice@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), registered.UserID)
	assert.Empty(t, registered.Password, "plain-text password must not survive the round trip")
	assert.Equal(t, signed, a.Token())
}

func TestLogin_WrongCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid login/password", http.StatusUnauthorized)
	}))
	defer server.Close()

	a := newTestAdapter(t, server)

	_, err := a.Login(context.Background(), models.User{Email: "a@b.c", Password: "nope"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, a.Token())
}

func TestCreateItem_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/items/", r.URL.Path)
		require.Equal(t, "Bearer stored.token", r.Header.Get("Authorization"))

		var draft models.ItemDraft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))

		utils.WriteJSON(w, models.Item{ID: "item-1", Name: draft.Name}, http.StatusCreated)
	}))
	defer server.Close()

	a := newTestAdapter(t, server)
	a.SetToken("stored.token")

	created, err := a.CreateItem(context.Background(), models.ItemDraft{Name: "Flour", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "item-1", created.ID)
}

func TestUpdateItem_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "item not found", http.StatusNotFound)
	}))
	defer server.Close()

	a := newTestAdapter(t, server)
	a.SetToken("stored.token")

	name := "Anything"
	_, err := a.UpdateItem(context.Background(), "missing", models.ItemPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItem_Success(t *testing.T) {
	var deletedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deletedPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	a := newTestAdapter(t, server)
	a.SetToken("stored.token")

	require.NoError(t, a.DeleteItem(context.Background(), "item-1"))
	assert.Equal(t, "/api/items/item-1", deletedPath)
}

func TestGetItems_NameFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Flour", r.URL.Query().Get("name"))
		utils.WriteJSON(w, models.Snapshot{Items: []models.Item{{ID: "a", Name: "Flour"}}}, http.StatusOK)
	}))
	defer server.Close()

	a := newTestAdapter(t, server)
	a.SetToken("stored.token")

	snapshot, err := a.GetItems(context.Background(), "Flour")
	require.NoError(t, err)
	assert.Len(t, snapshot.Items, 1)
}

func TestWatchItems_DeliversSnapshotsUntilCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/items/watch", r.URL.Path)

		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		for i := 1; i <= 2; i++ {
			payload, err := json.Marshal(models.Snapshot{Items: make([]models.Item, i)})
			require.NoError(t, err)
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
			flusher.Flush()
		}
		<-r.Context().Done()
	}))
	defer server.Close()

	a := newTestAdapter(t, server)
	a.SetToken("stored.token")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := a.WatchItems(ctx, "")
	require.NoError(t, err)

	first := <-snapshots
	assert.Len(t, first.Items, 1)

	second := <-snapshots
	assert.Len(t, second.Items, 2)

	cancel()

	select {
	case _, open := <-snapshots:
		assert.False(t, open, "channel must close after cancellation")
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot channel did not close after cancellation")
	}
}

func TestWatchItems_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "empty Authorization header", http.StatusUnauthorized)
	}))
	defer server.Close()

	a := newTestAdapter(t, server)

	_, err := a.WatchItems(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUploadItemImage_MultipartRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "item", r.FormValue("target"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "flour.jpg", header.Filename)

		utils.WriteJSON(w, models.AssetResponse{URL: "http://store/pantryItems/42/flour.jpg"}, http.StatusCreated)
	}))
	defer server.Close()

	a := newTestAdapter(t, server)
	a.SetToken("stored.token")

	url, err := a.UploadItemImage(context.Background(), models.Asset{
		FileName:    "flour.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("img"),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://store/pantryItems/42/flour.jpg", url)
}

func TestProfile_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			utils.WriteJSON(w, models.Profile{FirstName: "Jane"}, http.StatusOK)
		case http.MethodPut:
			var profile models.Profile
			require.NoError(t, json.NewDecoder(r.Body).Decode(&profile))
			utils.WriteJSON(w, profile, http.StatusOK)
		}
	}))
	defer server.Close()

	a := newTestAdapter(t, server)
	a.SetToken("stored.token")

	profile, err := a.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jane", profile.FirstName)

	profile.Bio = "Keeps a tidy pantry"
	saved, err := a.SaveProfile(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, "Keeps a tidy pantry", saved.Bio)
}
