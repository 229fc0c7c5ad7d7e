package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/store"
	"github.com/MKhiriev/go-pantry-keeper/internal/utils"
	"github.com/MKhiriev/go-pantry-keeper/models"
)

// itemService is the concrete implementation of [ItemService].
//
// Mutations are validated before anything is written: an operation that
// fails validation never reaches the repository and never produces a
// change notification. After a successful write the owner's hub
// subscribers are signalled so that every live snapshot stream re-reads
// its view.
type itemService struct {
	itemRepository store.ItemRepository
	hub            *store.Hub
	idGenerator    *utils.UUIDGenerator
	logger         *logger.Logger
}

// NewItemService constructs an [ItemService] wired to the given repository
// and notification hub.
func NewItemService(itemRepository store.ItemRepository, hub *store.Hub, logger *logger.Logger) ItemService {
	return &itemService{
		itemRepository: itemRepository,
		hub:            hub,
		idGenerator:    utils.NewUUIDGenerator(),
		logger:         logger,
	}
}

// CreateItem validates the draft, assigns a fresh identifier, persists the
// item stamped with the calling owner, and notifies the owner's live
// subscriptions.
//
// Returns the canonical stored item or:
//   - ErrValidationEmptyItemName if the trimmed name is empty.
//   - ErrValidationBadQuantity if the quantity is negative or not finite.
//   - A wrapped storage error if persistence fails; nothing is written and
//     no notification is emitted in that case.
func (s *itemService) CreateItem(ctx context.Context, ownerID int64, draft models.ItemDraft) (models.Item, error) {
	log := logger.FromContext(ctx)

	if err := validateDraft(draft); err != nil {
		log.Error().Err(err).Int64("owner_id", ownerID).Msg("invalid item draft")
		return models.Item{}, err
	}

	item := models.Item{
		ID:        s.idGenerator.Generate(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(draft.Name),
		Quantity:  draft.Quantity,
		Category:  draft.Category,
		ExpiresAt: draft.ExpiresAt,
		Unit:      draft.Unit,
		AssetURL:  draft.AssetURL,
	}

	saved, err := s.itemRepository.CreateItem(ctx, item)
	if err != nil {
		log.Err(err).Int64("owner_id", ownerID).Msg("item creation ended with error")
		return models.Item{}, fmt.Errorf("item creation ended with error: %w", err)
	}

	s.hub.Notify(ownerID)

	return saved, nil
}

// UpdateItem validates the patch, applies it to the addressed item, and
// notifies the owner's live subscriptions.
//
// Returns the canonical updated item or:
//   - ErrValidationEmptyPatch if the patch carries no changes.
//   - ErrValidationEmptyItemName / ErrValidationBadQuantity for invalid
//     patched values.
//   - store.ErrItemNotFound (wrapped) when the item does not exist or
//     belongs to another owner — the two cases are indistinguishable.
func (s *itemService) UpdateItem(ctx context.Context, ownerID int64, itemID string, patch models.ItemPatch) (models.Item, error) {
	log := logger.FromContext(ctx)

	if err := validatePatch(patch); err != nil {
		log.Error().Err(err).Str("item_id", itemID).Int64("owner_id", ownerID).Msg("invalid item patch")
		return models.Item{}, err
	}

	updated, err := s.itemRepository.UpdateItem(ctx, ownerID, itemID, patch)
	if err != nil {
		log.Err(err).Str("item_id", itemID).Int64("owner_id", ownerID).Msg("item update ended with error")
		return models.Item{}, fmt.Errorf("item update ended with error: %w", err)
	}

	s.hub.Notify(ownerID)

	return updated, nil
}

// DeleteItem removes the addressed item and notifies the owner's live
// subscriptions. Deleting an unknown item returns store.ErrItemNotFound
// (wrapped) and emits no notification.
func (s *itemService) DeleteItem(ctx context.Context, ownerID int64, itemID string) error {
	log := logger.FromContext(ctx)

	if err := s.itemRepository.DeleteItem(ctx, ownerID, itemID); err != nil {
		log.Err(err).Str("item_id", itemID).Int64("owner_id", ownerID).Msg("item deletion ended with error")
		return fmt.Errorf("item deletion ended with error: %w", err)
	}

	s.hub.Notify(ownerID)

	return nil
}

// Snapshot returns the complete current record set matching the filter.
// The result is authoritative and self-contained: consumers replace their
// previous view with it wholesale rather than merging.
func (s *itemService) Snapshot(ctx context.Context, filter models.ItemFilter) (models.Snapshot, error) {
	log := logger.FromContext(ctx)

	items, err := s.itemRepository.GetItems(ctx, filter)
	if err != nil {
		log.Err(err).Int64("owner_id", filter.OwnerID).Msg("snapshot query ended with error")
		return models.Snapshot{}, fmt.Errorf("snapshot query ended with error: %w", err)
	}

	return models.Snapshot{Items: items}, nil
}

// Subscribe registers a change-signal channel for the owner with the hub.
func (s *itemService) Subscribe(ownerID int64) (<-chan struct{}, func()) {
	return s.hub.Subscribe(ownerID)
}

func validateDraft(draft models.ItemDraft) error {
	if strings.TrimSpace(draft.Name) == "" {
		return ErrValidationEmptyItemName
	}
	if !isValidQuantity(draft.Quantity) {
		return ErrValidationBadQuantity
	}
	return nil
}

func validatePatch(patch models.ItemPatch) error {
	if patch.IsZero() {
		return ErrValidationEmptyPatch
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrValidationEmptyItemName
	}
	if patch.Quantity != nil && !isValidQuantity(*patch.Quantity) {
		return ErrValidationBadQuantity
	}
	return nil
}

func isValidQuantity(q float64) bool {
	// Rejects negatives and NaN in one comparison; +Inf is rejected explicitly.
	return q >= 0 && q <= maxQuantity
}

// maxQuantity bounds a single inventory record. Large enough for any real
// pantry, small enough to reject garbage input and +Inf.
const maxQuantity = 1e9
