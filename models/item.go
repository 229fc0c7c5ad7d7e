package models

import "time"

// Item is a single pantry inventory record owned by exactly one user.
//
// ID is assigned by the store on first successful creation and is never
// reused. OwnerID is stamped from the creating session and is immutable
// afterwards; an item is visible only to the session whose user ID equals
// OwnerID.
type Item struct {
	// ID is the store-assigned unique identifier of the item.
	ID string `json:"id"`

	// OwnerID is the identifier of the user that owns the item.
	// Set once at creation time from the authenticated session.
	OwnerID int64 `json:"owner_id"`

	// Name is the human-readable item name. Never empty for a persisted item.
	Name string `json:"name"`

	// Quantity is the canonical numeric amount of the item.
	// Display formatting (units, precision) is a presentation concern.
	Quantity float64 `json:"quantity"`

	// Category is an optional grouping label, empty when unset.
	Category string `json:"category"`

	// ExpiresAt is the optional expiration date of the item.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// Unit is an optional measurement unit label (e.g. "kg", "pcs").
	Unit string `json:"unit"`

	// AssetURL is the retrieval URL of the attached image.
	// Empty unless an asset upload completed successfully before the write.
	AssetURL string `json:"asset_url"`

	// CreatedAt and UpdatedAt are maintained by the store.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Item model.
func (i Item) TableName() string {
	return "pantry_items"
}

// ItemDraft carries the user-supplied fields of a new item.
// OwnerID, ID and AssetURL are filled in by the server, never by callers.
type ItemDraft struct {
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	Category  string     `json:"category"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Unit      string     `json:"unit"`

	// AssetURL is populated by the service layer after a successful asset
	// upload; drafts submitted by clients leave it empty.
	AssetURL string `json:"asset_url"`
}

// ItemPatch is an explicit partial update of an item. A nil field means
// "leave unchanged"; a non-nil field replaces the stored value.
//
// OwnerID and ID are addressed separately and can never be patched.
type ItemPatch struct {
	Name      *string    `json:"name,omitempty"`
	Quantity  *float64   `json:"quantity,omitempty"`
	Category  *string    `json:"category,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Unit      *string    `json:"unit,omitempty"`
	AssetURL  *string    `json:"asset_url,omitempty"`
}

// IsZero reports whether the patch carries no field changes at all.
func (p ItemPatch) IsZero() bool {
	return p.Name == nil && p.Quantity == nil && p.Category == nil &&
		p.ExpiresAt == nil && p.Unit == nil && p.AssetURL == nil
}

// ItemFilter describes the scope of an item query or live subscription.
// OwnerID is mandatory; Name, when non-empty, narrows the result to items
// whose name matches exactly (the dashboard search predicate).
type ItemFilter struct {
	OwnerID int64
	Name    string
}

// Snapshot is one complete, authoritative delivery of the record set matching
// a subscription's filter. Snapshots are never merged: each one fully
// replaces whatever the receiver held before.
type Snapshot struct {
	Items []Item `json:"items"`
}
