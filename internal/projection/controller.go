// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package projection implements the client's view of the pantry record set.
//
// The [Controller] keeps a local read-only projection of the items owned by
// the attached session, fed exclusively by complete snapshots from the
// server's live stream. Mutations are synchronous server calls: nothing is
// inserted, changed, or removed locally until the server confirms and a new
// snapshot arrives. Failed operations leave the projection untouched.
package projection

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/MKhiriev/go-pantry-keeper/internal/adapter"
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/models"
)

// createKey marks an item creation in the in-flight set. Item mutations use
// the item ID as their key, which can never collide with this value.
const createKey = "\x00create"

// Controller owns the client-side record projection and the lifecycle of
// the live snapshot subscription that feeds it.
//
// Exactly one subscription is active per attached session. Attaching a new
// session (or re-attaching after a scope change) always cancels the old
// subscription before the new one is established, so two streams never feed
// the projection at once. After Teardown no snapshot delivery can reach the
// projection, however late it arrives.
type Controller struct {
	serverAdapter adapter.ServerAdapter
	logger        *logger.Logger

	mu         sync.RWMutex
	items      map[string]models.Item
	session    models.Session
	nameFilter string

	// generation fences snapshot deliveries: the pump stamps every apply
	// with the generation it was started under, and stale stamps are
	// discarded. Incremented on every attach and teardown.
	generation uint64

	watching   bool
	cancelPump context.CancelFunc
	pumpDone   chan struct{}

	inFlight map[string]struct{}

	// updates is the observer channel: one coalesced signal per projection
	// change. Capacity 1; a pending signal already covers later changes.
	updates chan struct{}
}

// NewController creates a Controller in the signed-out state: empty
// projection, no subscription.
func NewController(serverAdapter adapter.ServerAdapter, logger *logger.Logger) *Controller {
	return &Controller{
		serverAdapter: serverAdapter,
		logger:        logger,
		items:         make(map[string]models.Item),
		inFlight:      make(map[string]struct{}),
		updates:       make(chan struct{}, 1),
	}
}

// Updates returns the observer channel. It carries one coalesced signal per
// projection change; consumers re-read Items after each signal.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// Session returns the currently attached session. A zero session means
// signed out.
func (c *Controller) Session() models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Watching reports whether the live snapshot stream is currently open.
func (c *Controller) Watching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watching
}

// Items returns a stable-ordered copy of the projection, oldest first.
func (c *Controller) Items() []models.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]models.Item, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})

	return items
}

// Item returns the projected record with the given ID, if present.
func (c *Controller) Item(itemID string) (models.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[itemID]
	return item, ok
}

// AttachSession binds the controller to the given session and (re)opens the
// live snapshot stream scoped to it. Any previous subscription is cancelled
// first and its pump is joined before the new stream starts, so deliveries
// from the old scope can never land in the new projection.
//
// An unauthenticated session is equivalent to Teardown: the projection is
// cleared and no new subscription is opened.
//
// nameFilter, when non-empty, narrows the projection to items with exactly
// that name.
func (c *Controller) AttachSession(ctx context.Context, session models.Session, nameFilter string) error {
	c.stopPump()

	c.mu.Lock()
	c.generation++
	c.session = session
	c.nameFilter = nameFilter
	c.items = make(map[string]models.Item)
	c.mu.Unlock()
	c.signal()

	if !session.Authenticated {
		return nil
	}

	return c.startPump(ctx)
}

// Resubscribe reopens the live snapshot stream for the currently attached
// session. It is a no-op when the stream is already open or no session is
// attached. Used by the resubscribe job after a dropped connection.
func (c *Controller) Resubscribe(ctx context.Context) error {
	c.mu.RLock()
	watching, authenticated := c.watching, c.session.Authenticated
	c.mu.RUnlock()

	if watching || !authenticated {
		return nil
	}

	c.stopPump()
	return c.startPump(ctx)
}

// Teardown cancels the subscription and clears the projection. After it
// returns, no snapshot delivery reaches the projection and the controller
// reports the signed-out state.
func (c *Controller) Teardown() {
	c.stopPump()

	c.mu.Lock()
	c.generation++
	c.session = models.Session{}
	c.nameFilter = ""
	c.items = make(map[string]models.Item)
	c.mu.Unlock()
	c.signal()
}

// ApplySnapshot replaces the whole projection with the delivered record
// set. Snapshots are never merged: whatever the projection held before is
// discarded.
func (c *Controller) ApplySnapshot(snapshot models.Snapshot) {
	c.mu.Lock()
	c.applyLocked(snapshot)
	c.mu.Unlock()
	c.signal()
}

// CreateItem validates the draft locally, uploads the optional image, and
// submits the creation to the server. The projection is not touched: the
// new record arrives with the next snapshot.
//
// A failed upload aborts the whole operation ([ErrAssetUpload]); nothing is
// created in that case. A second create while one is still in flight is
// rejected with [ErrOperationInFlight].
func (c *Controller) CreateItem(ctx context.Context, draft models.ItemDraft, asset *models.Asset) (models.Item, error) {
	if !c.Session().Authenticated {
		return models.Item{}, ErrNoSession
	}
	if err := validateDraft(draft); err != nil {
		return models.Item{}, err
	}

	if err := c.acquire(createKey); err != nil {
		return models.Item{}, err
	}
	defer c.release(createKey)

	if asset != nil {
		url, err := c.serverAdapter.UploadItemImage(ctx, *asset)
		if err != nil {
			c.logger.Error().Err(err).Str("file", asset.FileName).Msg("item image upload failed, creation aborted")
			return models.Item{}, fmt.Errorf("%w: %w", ErrAssetUpload, err)
		}
		draft.AssetURL = url
	}

	created, err := c.serverAdapter.CreateItem(ctx, draft)
	if err != nil {
		return models.Item{}, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	return created, nil
}

// UpdateItem validates the patch, uploads the optional replacement image,
// and submits the update. The addressed item must be present in the
// projection ([ErrUnknownRecord] otherwise). The projection itself changes
// only when the confirming snapshot arrives.
func (c *Controller) UpdateItem(ctx context.Context, itemID string, patch models.ItemPatch, asset *models.Asset) (models.Item, error) {
	if !c.Session().Authenticated {
		return models.Item{}, ErrNoSession
	}
	if _, ok := c.Item(itemID); !ok {
		return models.Item{}, fmt.Errorf("%w: %s", ErrUnknownRecord, itemID)
	}
	if err := validatePatch(patch, asset); err != nil {
		return models.Item{}, err
	}

	if err := c.acquire(itemID); err != nil {
		return models.Item{}, err
	}
	defer c.release(itemID)

	if asset != nil {
		url, err := c.serverAdapter.UploadItemImage(ctx, *asset)
		if err != nil {
			c.logger.Error().Err(err).Str("file", asset.FileName).Msg("item image upload failed, update aborted")
			return models.Item{}, fmt.Errorf("%w: %w", ErrAssetUpload, err)
		}
		patch.AssetURL = &url
	}

	updated, err := c.serverAdapter.UpdateItem(ctx, itemID, patch)
	if err != nil {
		return models.Item{}, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	return updated, nil
}

// DeleteItem submits an immediate, irreversible deletion. The addressed
// item must be present in the projection ([ErrUnknownRecord] otherwise).
func (c *Controller) DeleteItem(ctx context.Context, itemID string) error {
	if !c.Session().Authenticated {
		return ErrNoSession
	}
	if _, ok := c.Item(itemID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, itemID)
	}

	if err := c.acquire(itemID); err != nil {
		return err
	}
	defer c.release(itemID)

	if err := c.serverAdapter.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	return nil
}

// ─────────────────────────────────────────────
// subscription pump
// ─────────────────────────────────────────────

func (c *Controller) startPump(ctx context.Context) error {
	c.mu.Lock()
	nameFilter := c.nameFilter
	generation := c.generation
	pumpCtx, cancel := context.WithCancel(ctx)
	c.mu.Unlock()

	snapshots, err := c.serverAdapter.WatchItems(pumpCtx, nameFilter)
	if err != nil {
		cancel()
		return fmt.Errorf("opening snapshot stream: %w", err)
	}

	done := make(chan struct{})

	c.mu.Lock()
	c.cancelPump = cancel
	c.pumpDone = done
	c.watching = true
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			c.mu.Lock()
			if c.generation == generation {
				c.watching = false
			}
			c.mu.Unlock()
		}()

		for {
			select {
			case <-pumpCtx.Done():
				return
			case snapshot, open := <-snapshots:
				if !open {
					c.logger.Debug().Msg("snapshot stream closed")
					return
				}
				if !c.applyGeneration(generation, snapshot) {
					return
				}
			}
		}
	}()

	return nil
}

// stopPump cancels the running pump, if any, and waits for it to exit.
func (c *Controller) stopPump() {
	c.mu.Lock()
	cancel, done := c.cancelPump, c.pumpDone
	c.cancelPump, c.pumpDone = nil, nil
	c.watching = false
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// applyGeneration applies the snapshot only if the pump that delivered it
// is still the current one. Returns false when the delivery was stale, in
// which case the pump must exit.
func (c *Controller) applyGeneration(generation uint64, snapshot models.Snapshot) bool {
	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		return false
	}
	c.applyLocked(snapshot)
	c.mu.Unlock()

	c.signal()
	return true
}

func (c *Controller) applyLocked(snapshot models.Snapshot) {
	items := make(map[string]models.Item, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items[item.ID] = item
	}
	c.items = items
}

// ─────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────

func (c *Controller) signal() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

func (c *Controller) acquire(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.inFlight[key]; busy {
		return ErrOperationInFlight
	}
	c.inFlight[key] = struct{}{}
	return nil
}

func (c *Controller) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, key)
}

func validateDraft(draft models.ItemDraft) error {
	if strings.TrimSpace(draft.Name) == "" {
		return ErrEmptyName
	}
	if !isValidQuantity(draft.Quantity) {
		return ErrInvalidQuantity
	}
	return nil
}

func validatePatch(patch models.ItemPatch, asset *models.Asset) error {
	if patch.IsZero() && asset == nil {
		return ErrEmptyPatch
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrEmptyName
	}
	if patch.Quantity != nil && !isValidQuantity(*patch.Quantity) {
		return ErrInvalidQuantity
	}
	return nil
}

func isValidQuantity(q float64) bool {
	// q > 0 is false for NaN; the upper bound rejects +Inf and garbage input.
	return q > 0 && q <= maxQuantity
}

// maxQuantity bounds a submitted quantity, matching the store's limit.
const maxQuantity = 1e9
