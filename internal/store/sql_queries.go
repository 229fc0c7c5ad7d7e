package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-pantry-keeper/models"
)

const (
	createUser = `INSERT INTO users (email, password_hash, first_name, last_name)
    VALUES ($1, $2, $3, $4)
    RETURNING user_id, email, password_hash, first_name, last_name, created_at;`

	findUserByEmail = `SELECT user_id, email, password_hash, first_name, last_name, created_at
    FROM users
    WHERE email = $1;`

	getProfile = `SELECT user_id, first_name, last_name, email, bio, social_media, avatar_url
    FROM profiles
    WHERE user_id = $1;`

	saveProfile = `INSERT INTO profiles (user_id, first_name, last_name, email, bio, social_media, avatar_url)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    ON CONFLICT (user_id) DO UPDATE SET
        first_name   = excluded.first_name,
        last_name    = excluded.last_name,
        email        = excluded.email,
        bio          = excluded.bio,
        social_media = excluded.social_media,
        avatar_url   = excluded.avatar_url
    RETURNING user_id, first_name, last_name, email, bio, social_media, avatar_url;`
)

// itemColumns is the canonical column order used by every pantry_items
// query; scanItem relies on it.
var itemColumns = []string{
	"id",
	"owner_id",
	"name",
	"quantity",
	"category",
	"expires_at",
	"unit",
	"asset_url",
	"created_at",
	"updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildSelectItemsQuery builds the owner-scoped SELECT over pantry_items.
// The owner predicate is always present; a non-empty filter name narrows the
// result to exact-name matches. Rows are ordered by creation time so that
// snapshots are stable across deliveries.
func buildSelectItemsQuery(filter models.ItemFilter) (string, []any, error) {
	builder := psql.
		Select(itemColumns...).
		From(models.Item{}.TableName()).
		Where(sq.Eq{"owner_id": filter.OwnerID}).
		OrderBy("created_at")

	if filter.Name != "" {
		builder = builder.Where(sq.Eq{"name": filter.Name})
	}

	return builder.ToSql()
}

// buildInsertItemQuery builds the INSERT for a new pantry item. All columns
// are written explicitly; the RETURNING clause yields the canonical stored
// row back to the caller.
func buildInsertItemQuery(item models.Item) (string, []any, error) {
	return psql.
		Insert(models.Item{}.TableName()).
		Columns(itemColumns...).
		Values(
			item.ID,
			item.OwnerID,
			item.Name,
			item.Quantity,
			item.Category,
			item.ExpiresAt,
			item.Unit,
			item.AssetURL,
			item.CreatedAt,
			item.UpdatedAt,
		).
		Suffix("RETURNING " + itemColumnsList()).
		ToSql()
}

// buildUpdateItemQuery builds a partial UPDATE from the non-nil patch fields.
// The WHERE clause pins both id and owner_id, so an update can never cross an
// ownership boundary regardless of the item identifier supplied.
func buildUpdateItemQuery(ownerID int64, itemID string, patch models.ItemPatch, now time.Time) (string, []any, error) {
	setMap := sq.Eq{"updated_at": now}

	if patch.Name != nil {
		setMap["name"] = *patch.Name
	}
	if patch.Quantity != nil {
		setMap["quantity"] = *patch.Quantity
	}
	if patch.Category != nil {
		setMap["category"] = *patch.Category
	}
	if patch.ExpiresAt != nil {
		setMap["expires_at"] = *patch.ExpiresAt
	}
	if patch.Unit != nil {
		setMap["unit"] = *patch.Unit
	}
	if patch.AssetURL != nil {
		setMap["asset_url"] = *patch.AssetURL
	}

	return psql.
		Update(models.Item{}.TableName()).
		SetMap(setMap).
		Where(sq.Eq{"id": itemID, "owner_id": ownerID}).
		Suffix("RETURNING " + itemColumnsList()).
		ToSql()
}

// buildDeleteItemQuery builds the owner-scoped DELETE for a single item.
func buildDeleteItemQuery(ownerID int64, itemID string) (string, []any, error) {
	return psql.
		Delete(models.Item{}.TableName()).
		Where(sq.Eq{"id": itemID, "owner_id": ownerID}).
		ToSql()
}

func itemColumnsList() string {
	list := itemColumns[0]
	for _, col := range itemColumns[1:] {
		list += ", " + col
	}
	return list
}
