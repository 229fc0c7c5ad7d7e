// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package projection

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/mock"
	"github.com/MKhiriev/go-pantry-keeper/internal/workers"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestController(t *testing.T) (*Controller, *mock.MockServerAdapter) {
	t.Helper()

	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	return NewController(serverAdapter, logger.Nop()), serverAdapter
}

// attach binds an authenticated session backed by the given snapshot
// channel and waits for nothing: callers drive the stream themselves.
func attach(t *testing.T, c *Controller, serverAdapter *mock.MockServerAdapter, userID int64) chan models.Snapshot {
	t.Helper()

	stream := make(chan models.Snapshot)
	serverAdapter.EXPECT().
		WatchItems(gomock.Any(), "").
		Return((<-chan models.Snapshot)(stream), nil)

	err := c.AttachSession(context.Background(), models.Session{UserID: userID, Authenticated: true}, "")
	require.NoError(t, err)

	return stream
}

// waitForUpdate blocks until the controller signals a projection change.
func waitForUpdate(t *testing.T, c *Controller) {
	t.Helper()
	select {
	case <-c.Updates():
	case <-time.After(2 * time.Second):
		t.Fatal("no projection change signal arrived")
	}
}

func drainUpdates(c *Controller) {
	for {
		select {
		case <-c.Updates():
		default:
			return
		}
	}
}

// ─────────────────────────────────────────────
// snapshots feed the projection (Scenario C)
// ─────────────────────────────────────────────

func TestApplySnapshot_WholesaleReplacement(t *testing.T) {
	c, serverAdapter := newTestController(t)
	stream := attach(t, c, serverAdapter, 1)
	defer c.Teardown()
	drainUpdates(c)

	stream <- models.Snapshot{Items: []models.Item{
		{ID: "r1", OwnerID: 1, Name: "Eggs"},
		{ID: "r2", OwnerID: 1, Name: "Milk"},
	}}
	waitForUpdate(t, c)
	require.Len(t, c.Items(), 2)

	// the next delivery fully replaces the previous one, no merging
	stream <- models.Snapshot{Items: []models.Item{
		{ID: "r1", OwnerID: 1, Name: "Eggs"},
	}}
	waitForUpdate(t, c)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "r1", items[0].ID)
}

func TestAttachSession_ClearsPreviousProjection(t *testing.T) {
	c, serverAdapter := newTestController(t)
	stream := attach(t, c, serverAdapter, 1)
	drainUpdates(c)

	stream <- models.Snapshot{Items: []models.Item{{ID: "r1", OwnerID: 1, Name: "Eggs"}}}
	waitForUpdate(t, c)
	require.Len(t, c.Items(), 1)

	// switching users starts from an empty projection
	attach(t, c, serverAdapter, 2)
	defer c.Teardown()

	assert.Empty(t, c.Items())
	assert.Equal(t, int64(2), c.Session().UserID)
}

// ─────────────────────────────────────────────
// P5: single active subscription
// ─────────────────────────────────────────────

func TestAttachSession_CancelsPreviousSubscription(t *testing.T) {
	c, serverAdapter := newTestController(t)

	firstCancelled := make(chan struct{})
	first := make(chan models.Snapshot)
	serverAdapter.EXPECT().
		WatchItems(gomock.Any(), "").
		DoAndReturn(func(ctx context.Context, _ string) (<-chan models.Snapshot, error) {
			go func() {
				<-ctx.Done()
				close(first)
				close(firstCancelled)
			}()
			return first, nil
		})

	require.NoError(t, c.AttachSession(context.Background(), models.Session{UserID: 1, Authenticated: true}, ""))

	attach(t, c, serverAdapter, 1)
	defer c.Teardown()

	select {
	case <-firstCancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("first subscription was not cancelled by the second attach")
	}
}

// ─────────────────────────────────────────────
// P2: teardown clears state, no delivery after cancel
// ─────────────────────────────────────────────

func TestTeardown_StaleSnapshotNeverLands(t *testing.T) {
	c, serverAdapter := newTestController(t)
	stream := attach(t, c, serverAdapter, 1)
	drainUpdates(c)

	stream <- models.Snapshot{Items: []models.Item{{ID: "r1", OwnerID: 1, Name: "Eggs"}}}
	waitForUpdate(t, c)

	c.Teardown()
	assert.Empty(t, c.Items())
	assert.False(t, c.Session().Authenticated)

	// a delivery racing the teardown must not repopulate the projection
	select {
	case stream <- models.Snapshot{Items: []models.Item{{ID: "r9", OwnerID: 1, Name: "Stale"}}}:
	default:
		// pump already exited and no longer receives; equally fine
	}

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, c.Items())
}

// ─────────────────────────────────────────────
// Scenario A: create without asset
// ─────────────────────────────────────────────

func TestCreateItem_NoAsset(t *testing.T) {
	c, serverAdapter := newTestController(t)
	attach(t, c, serverAdapter, 1)
	defer c.Teardown()

	serverAdapter.EXPECT().
		CreateItem(gomock.Any(), models.ItemDraft{Name: "Milk", Quantity: 1}).
		Return(models.Item{ID: "r1", OwnerID: 1, Name: "Milk", Quantity: 1}, nil)

	created, err := c.CreateItem(context.Background(), models.ItemDraft{Name: "Milk", Quantity: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, "r1", created.ID)
	assert.Empty(t, created.AssetURL)
}

// ─────────────────────────────────────────────
// Scenario B: validation rejects before any call
// ─────────────────────────────────────────────

func TestCreateItem_ValidationRejectsWithoutServerCall(t *testing.T) {
	tests := []struct {
		name    string
		draft   models.ItemDraft
		wantErr error
	}{
		{"empty name", models.ItemDraft{Name: "", Quantity: 2}, ErrEmptyName},
		{"blank name", models.ItemDraft{Name: "   ", Quantity: 2}, ErrEmptyName},
		{"zero quantity", models.ItemDraft{Name: "Milk", Quantity: 0}, ErrInvalidQuantity},
		{"negative quantity", models.ItemDraft{Name: "Milk", Quantity: -1}, ErrInvalidQuantity},
		{"NaN quantity", models.ItemDraft{Name: "Milk", Quantity: math.NaN()}, ErrInvalidQuantity},
		{"infinite quantity", models.ItemDraft{Name: "Milk", Quantity: math.Inf(1)}, ErrInvalidQuantity},
		{"absurd quantity", models.ItemDraft{Name: "Milk", Quantity: 1e12}, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, serverAdapter := newTestController(t)
			attach(t, c, serverAdapter, 1)
			defer c.Teardown()

			// no CreateItem / UploadItemImage expectations: any server
			// call fails the test
			_, err := c.CreateItem(context.Background(), tt.draft, nil)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

// ─────────────────────────────────────────────
// P3: asset upload failure aborts the creation
// ─────────────────────────────────────────────

func TestCreateItem_AssetUploadFailureAborts(t *testing.T) {
	c, serverAdapter := newTestController(t)
	attach(t, c, serverAdapter, 1)
	defer c.Teardown()

	serverAdapter.EXPECT().
		UploadItemImage(gomock.Any(), gomock.Any()).
		Return("", errors.New("access denied"))
	// no CreateItem expectation: the record write must never happen

	_, err := c.CreateItem(context.Background(), models.ItemDraft{Name: "Milk", Quantity: 1}, &models.Asset{
		FileName: "milk.jpg",
		Data:     []byte("img"),
	})

	assert.ErrorIs(t, err, ErrAssetUpload)
}

func TestCreateItem_AssetUploadedBeforeWrite(t *testing.T) {
	c, serverAdapter := newTestController(t)
	attach(t, c, serverAdapter, 1)
	defer c.Teardown()

	gomock.InOrder(
		serverAdapter.EXPECT().
			UploadItemImage(gomock.Any(), gomock.Any()).
			Return("http://store/pantryItems/1/milk.jpg", nil),
		serverAdapter.EXPECT().
			CreateItem(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, draft models.ItemDraft) (models.Item, error) {
				require.Equal(t, "http://store/pantryItems/1/milk.jpg", draft.AssetURL)
				return models.Item{ID: "r1", AssetURL: draft.AssetURL}, nil
			}),
	)

	created, err := c.CreateItem(context.Background(), models.ItemDraft{Name: "Milk", Quantity: 1}, &models.Asset{
		FileName: "milk.jpg",
		Data:     []byte("img"),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://store/pantryItems/1/milk.jpg", created.AssetURL)
}

// ─────────────────────────────────────────────
// P4 + Scenario D: update requires existence
// ─────────────────────────────────────────────

func TestUpdateItem_UnknownRecord(t *testing.T) {
	c, serverAdapter := newTestController(t)
	attach(t, c, serverAdapter, 1)
	defer c.Teardown()

	quantity := 5.0
	_, err := c.UpdateItem(context.Background(), "ghost", models.ItemPatch{Quantity: &quantity}, nil)

	assert.ErrorIs(t, err, ErrUnknownRecord)
}

func TestUpdateItem_ProjectedRecord(t *testing.T) {
	c, serverAdapter := newTestController(t)
	stream := attach(t, c, serverAdapter, 1)
	defer c.Teardown()
	drainUpdates(c)

	stream <- models.Snapshot{Items: []models.Item{{ID: "r1", OwnerID: 1, Name: "Eggs", Quantity: 2}}}
	waitForUpdate(t, c)

	quantity := 5.0
	serverAdapter.EXPECT().
		UpdateItem(gomock.Any(), "r1", models.ItemPatch{Quantity: &quantity}).
		Return(models.Item{ID: "r1", OwnerID: 1, Name: "Eggs", Quantity: 5}, nil)

	updated, err := c.UpdateItem(context.Background(), "r1", models.ItemPatch{Quantity: &quantity}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Quantity)

	// no optimistic mutation: the projection still holds the old value
	// until the confirming snapshot arrives
	projected, ok := c.Item("r1")
	require.True(t, ok)
	assert.Equal(t, 2.0, projected.Quantity)
}

func TestUpdateItem_NonFiniteQuantityRejectedWithoutServerCall(t *testing.T) {
	c, serverAdapter := newTestController(t)
	stream := attach(t, c, serverAdapter, 1)
	defer c.Teardown()
	drainUpdates(c)

	stream <- models.Snapshot{Items: []models.Item{{ID: "r1", OwnerID: 1, Name: "Eggs", Quantity: 2}}}
	waitForUpdate(t, c)

	// no UpdateItem expectation: any server call fails the test
	for _, quantity := range []float64{math.NaN(), math.Inf(1)} {
		q := quantity
		_, err := c.UpdateItem(context.Background(), "r1", models.ItemPatch{Quantity: &q}, nil)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestDeleteItem_UnknownRecord(t *testing.T) {
	c, serverAdapter := newTestController(t)
	attach(t, c, serverAdapter, 1)
	defer c.Teardown()

	err := c.DeleteItem(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUnknownRecord)
}

func TestDeleteItem_Projected(t *testing.T) {
	c, serverAdapter := newTestController(t)
	stream := attach(t, c, serverAdapter, 1)
	defer c.Teardown()
	drainUpdates(c)

	stream <- models.Snapshot{Items: []models.Item{{ID: "r1", OwnerID: 1, Name: "Eggs"}}}
	waitForUpdate(t, c)

	serverAdapter.EXPECT().DeleteItem(gomock.Any(), "r1").Return(nil)

	require.NoError(t, c.DeleteItem(context.Background(), "r1"))
}

// ─────────────────────────────────────────────
// duplicate in-flight submissions
// ─────────────────────────────────────────────

func TestUpdateItem_DuplicateInFlightRejected(t *testing.T) {
	c, serverAdapter := newTestController(t)
	stream := attach(t, c, serverAdapter, 1)
	defer c.Teardown()
	drainUpdates(c)

	stream <- models.Snapshot{Items: []models.Item{{ID: "r1", OwnerID: 1, Name: "Eggs"}}}
	waitForUpdate(t, c)

	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	serverAdapter.EXPECT().
		DeleteItem(gomock.Any(), "r1").
		DoAndReturn(func(_ context.Context, _ string) error {
			close(firstEntered)
			<-releaseFirst
			return nil
		})

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.DeleteItem(context.Background(), "r1")
	}()

	<-firstEntered

	// the same record is already being mutated
	err := c.DeleteItem(context.Background(), "r1")
	assert.ErrorIs(t, err, ErrOperationInFlight)

	close(releaseFirst)
	require.NoError(t, <-firstDone)

	// after completion the record is free again
	serverAdapter.EXPECT().DeleteItem(gomock.Any(), "r1").Return(nil)
	assert.NoError(t, c.DeleteItem(context.Background(), "r1"))
}

// ─────────────────────────────────────────────
// signed-out state
// ─────────────────────────────────────────────

func TestMutations_RequireSession(t *testing.T) {
	c, _ := newTestController(t)

	_, err := c.CreateItem(context.Background(), models.ItemDraft{Name: "Milk", Quantity: 1}, nil)
	assert.ErrorIs(t, err, ErrNoSession)

	quantity := 1.0
	_, err = c.UpdateItem(context.Background(), "r1", models.ItemPatch{Quantity: &quantity}, nil)
	assert.ErrorIs(t, err, ErrNoSession)

	assert.ErrorIs(t, c.DeleteItem(context.Background(), "r1"), ErrNoSession)
}

func TestAttachSession_UnauthenticatedEqualsTeardown(t *testing.T) {
	c, serverAdapter := newTestController(t)
	stream := attach(t, c, serverAdapter, 1)
	drainUpdates(c)

	stream <- models.Snapshot{Items: []models.Item{{ID: "r1", OwnerID: 1, Name: "Eggs"}}}
	waitForUpdate(t, c)

	// sign-out: no new WatchItems expectation, projection cleared
	require.NoError(t, c.AttachSession(context.Background(), models.Session{}, ""))

	assert.Empty(t, c.Items())
	assert.False(t, c.Watching())
}

// ─────────────────────────────────────────────
// resubscribe job
// ─────────────────────────────────────────────

func TestResubscribeJob_ReopensDroppedStream(t *testing.T) {
	c, serverAdapter := newTestController(t)

	first := make(chan models.Snapshot)
	serverAdapter.EXPECT().
		WatchItems(gomock.Any(), "").
		Return((<-chan models.Snapshot)(first), nil)
	require.NoError(t, c.AttachSession(context.Background(), models.Session{UserID: 1, Authenticated: true}, ""))

	reopened := make(chan struct{})
	serverAdapter.EXPECT().
		WatchItems(gomock.Any(), "").
		DoAndReturn(func(_ context.Context, _ string) (<-chan models.Snapshot, error) {
			close(reopened)
			return make(chan models.Snapshot), nil
		})

	// the server drops the stream
	close(first)

	job := NewResubscribeJob(c, 20*time.Millisecond)
	job.Start(context.Background())
	defer job.Stop()
	defer c.Teardown()

	select {
	case <-reopened:
	case <-time.After(2 * time.Second):
		t.Fatal("dropped stream was not reopened")
	}
}

// The job is wired into the client through the workers aggregate: launching
// it via Run must repair a dropped stream the same way Start does.
func TestResubscribeJob_RunsAsWorker(t *testing.T) {
	c, serverAdapter := newTestController(t)

	first := make(chan models.Snapshot)
	serverAdapter.EXPECT().
		WatchItems(gomock.Any(), "").
		Return((<-chan models.Snapshot)(first), nil)
	require.NoError(t, c.AttachSession(context.Background(), models.Session{UserID: 1, Authenticated: true}, ""))

	reopened := make(chan struct{})
	serverAdapter.EXPECT().
		WatchItems(gomock.Any(), "").
		DoAndReturn(func(_ context.Context, _ string) (<-chan models.Snapshot, error) {
			close(reopened)
			return make(chan models.Snapshot), nil
		})

	close(first)

	job := NewResubscribeJob(c, 20*time.Millisecond)
	workers.NewWorkers(job).Run()
	defer job.Stop()
	defer c.Teardown()

	select {
	case <-reopened:
	case <-time.After(2 * time.Second):
		t.Fatal("dropped stream was not reopened by the worker")
	}
}
