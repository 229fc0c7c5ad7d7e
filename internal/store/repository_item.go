package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/jackc/pgerrcode"
)

// itemRepository is the SQL-backed implementation of [ItemRepository].
// It executes all pantry-item CRUD operations against the "pantry_items"
// table using queries assembled by the squirrel builders in sql_queries.go.
//
// Every mutation is pinned to the owner: the WHERE clause of updates and
// deletes always carries both the item id and the owner id, so one user's
// operations can never touch another user's rows.
type itemRepository struct {
	*DB
	logger *logger.Logger
}

// NewItemRepository constructs an [ItemRepository] backed by the provided
// database connection and logger.
func NewItemRepository(db *DB, logger *logger.Logger) ItemRepository {
	logger.Debug().Msg("creating item repository")
	return &itemRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateItem inserts a new pantry item and returns the canonical stored row.
//
// The caller supplies a fully formed item including the store-assigned ID;
// CreatedAt/UpdatedAt are stamped here when the caller left them zero.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrItemNotSaved].
//   - Query failure → wrapped in [ErrExecutingQuery].
//   - Scan failure → wrapped in [ErrScanningRow].
func (r *itemRepository) CreateItem(ctx context.Context, item models.Item) (models.Item, error) {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}

	query, args, err := buildInsertItemQuery(item)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.CreateItem").
			Int64("owner_id", item.OwnerID).
			Msg("failed to build insert query")
		return models.Item{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.DB.queryRowRetry(ctx, query, args...)
	if rowErr := row.Err(); rowErr != nil {
		log.Err(rowErr).
			Str("func", "itemRepository.CreateItem").
			Int64("owner_id", item.OwnerID).
			Msg("failed to execute insert query")

		if postgresError(rowErr) == pgerrcode.UniqueViolation {
			return models.Item{}, ErrItemNotSaved
		}
		return models.Item{}, fmt.Errorf("%w: %w", ErrExecutingQuery, rowErr)
	}

	saved, scanErr := scanItemRow(row)
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "itemRepository.CreateItem").
			Int64("owner_id", item.OwnerID).
			Msg("failed to scan inserted item")
		return models.Item{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	log.Info().
		Str("func", "itemRepository.CreateItem").
		Int64("owner_id", saved.OwnerID).
		Str("item_id", saved.ID).
		Msg("pantry item created")

	return saved, nil
}

// UpdateItem applies the non-nil fields of patch to the item identified by
// (ownerID, itemID) and returns the canonical updated row.
//
// An empty patch is rejected upstream by the service layer; here it would
// still bump updated_at, which is harmless but never exercised.
//
// Error handling:
//   - No matching row (wrong id or foreign owner) → [ErrItemNotFound].
//   - Query failure → wrapped in [ErrExecutingQuery].
func (r *itemRepository) UpdateItem(ctx context.Context, ownerID int64, itemID string, patch models.ItemPatch) (models.Item, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateItemQuery(ownerID, itemID, patch, time.Now().UTC())
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.UpdateItem").
			Str("item_id", itemID).
			Msg("failed to build update query")
		return models.Item{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.DB.queryRowRetry(ctx, query, args...)
	if rowErr := row.Err(); rowErr != nil {
		log.Err(rowErr).
			Str("func", "itemRepository.UpdateItem").
			Str("item_id", itemID).
			Int64("owner_id", ownerID).
			Msg("failed to execute update query")
		return models.Item{}, fmt.Errorf("%w: %w", ErrExecutingQuery, rowErr)
	}

	updated, scanErr := scanItemRow(row)
	if scanErr != nil {
		if isNoRows(scanErr) {
			log.Warn().
				Str("func", "itemRepository.UpdateItem").
				Str("item_id", itemID).
				Int64("owner_id", ownerID).
				Msg("item not found")
			return models.Item{}, ErrItemNotFound
		}

		log.Err(scanErr).
			Str("func", "itemRepository.UpdateItem").
			Str("item_id", itemID).
			Msg("failed to scan updated item")
		return models.Item{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return updated, nil
}

// DeleteItem removes the item identified by (ownerID, itemID).
//
// Error handling:
//   - Zero affected rows → [ErrItemNotFound].
//   - Statement failure → wrapped in [ErrExecutingStatement].
func (r *itemRepository) DeleteItem(ctx context.Context, ownerID int64, itemID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteItemQuery(ownerID, itemID)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.DeleteItem").
			Str("item_id", itemID).
			Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, execErr := r.DB.execRetry(ctx, query, args...)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "itemRepository.DeleteItem").
			Str("item_id", itemID).
			Int64("owner_id", ownerID).
			Msg("failed to execute delete statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	affected, affectedErr := result.RowsAffected()
	if affectedErr != nil {
		log.Err(affectedErr).
			Str("func", "itemRepository.DeleteItem").
			Str("item_id", itemID).
			Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, affectedErr)
	}

	if affected == 0 {
		log.Warn().
			Str("func", "itemRepository.DeleteItem").
			Str("item_id", itemID).
			Int64("owner_id", ownerID).
			Msg("item not found")
		return ErrItemNotFound
	}

	log.Info().
		Str("func", "itemRepository.DeleteItem").
		Str("item_id", itemID).
		Int64("owner_id", ownerID).
		Msg("pantry item deleted")

	return nil
}

// GetItems retrieves every pantry item matching the filter, ordered by
// creation time. The result is a complete, self-contained snapshot of the
// owner's records: callers replace their previous view with it wholesale.
//
// Returns an empty slice when no records are found.
func (r *itemRepository) GetItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectItemsQuery(filter)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.GetItems").
			Int64("owner_id", filter.OwnerID).
			Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.DB.queryRetry(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "itemRepository.GetItems").
			Int64("owner_id", filter.OwnerID).
			Msg("failed to execute query for getting pantry items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	items := make([]models.Item, 0, 50)

	for rows.Next() {
		var item models.Item

		scanErr := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Name,
			&item.Quantity,
			&item.Category,
			&item.ExpiresAt,
			&item.Unit,
			&item.AssetURL,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "itemRepository.GetItems").
				Int64("owner_id", filter.OwnerID).
				Msg("failed to scan pantry item row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "itemRepository.GetItems").
			Int64("owner_id", filter.OwnerID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return items, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItemRow(row rowScanner) (models.Item, error) {
	var item models.Item
	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Name,
		&item.Quantity,
		&item.Category,
		&item.ExpiresAt,
		&item.Unit,
		&item.AssetURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}
