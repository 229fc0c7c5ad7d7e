// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildSelectItemsQuery_OwnerOnly(t *testing.T) {
	query, args, err := buildSelectItemsQuery(models.ItemFilter{OwnerID: 42})
	require.NoError(t, err)

	// args checks
	require.Len(t, args, 1)
	require.Equal(t, int64(42), args[0])

	// query checks (contains parts)
	q := strings.ToLower(query)

	require.Contains(t, q, "select")
	require.Contains(t, q, "from pantry_items")
	require.Contains(t, q, "where")
	require.Contains(t, q, "owner_id")
	require.Contains(t, q, "order by created_at")

	// placeholder format should be $1 (Postgres)
	require.Contains(t, query, "$1")

	// columns presence (subset / key columns)
	require.Contains(t, q, "id")
	require.Contains(t, q, "name")
	require.Contains(t, q, "quantity")
	require.Contains(t, q, "expires_at")
	require.Contains(t, q, "asset_url")
}

func Test_buildSelectItemsQuery_WithNameFilter(t *testing.T) {
	query, args, err := buildSelectItemsQuery(models.ItemFilter{OwnerID: 42, Name: "Flour"})
	require.NoError(t, err)

	require.Len(t, args, 2)
	assert.Equal(t, int64(42), args[0])
	assert.Equal(t, "Flour", args[1])

	q := strings.ToLower(query)
	assert.Contains(t, q, "name")
	assert.Contains(t, query, "$2")
}

func Test_buildSelectItemsQuery_SelectsAllExpectedColumns(t *testing.T) {
	query, _, err := buildSelectItemsQuery(models.ItemFilter{OwnerID: 1})
	require.NoError(t, err)

	q := strings.ToLower(query)

	// Check that all expected columns are present in the SELECT section.
	// This is a "contains" check; it does not enforce order but catches regressions quickly.
	for _, c := range itemColumns {
		require.Contains(t, q, c)
	}
}

func Test_buildInsertItemQuery(t *testing.T) {
	now := time.Now().UTC()
	item := models.Item{
		ID:        "item-1",
		OwnerID:   42,
		Name:      "Flour",
		Quantity:  2.5,
		Unit:      "kg",
		CreatedAt: now,
		UpdatedAt: now,
	}

	query, args, err := buildInsertItemQuery(item)
	require.NoError(t, err)

	require.Len(t, args, len(itemColumns))
	assert.Equal(t, "item-1", args[0])
	assert.Equal(t, int64(42), args[1])
	assert.Equal(t, "Flour", args[2])

	q := strings.ToUpper(query)
	assert.Contains(t, q, "INSERT INTO PANTRY_ITEMS")
	assert.Contains(t, q, "RETURNING")
}

func Test_buildUpdateItemQuery_PartialPatch(t *testing.T) {
	now := time.Now().UTC()
	name := "Sugar"
	quantity := 3.0

	query, args, err := buildUpdateItemQuery(42, "item-1", models.ItemPatch{
		Name:     &name,
		Quantity: &quantity,
	}, now)
	require.NoError(t, err)

	// updated_at + 2 patch fields + 2 WHERE args
	require.Len(t, args, 5)

	q := strings.ToLower(query)
	assert.Contains(t, q, "update pantry_items")
	assert.Contains(t, q, "name")
	assert.Contains(t, q, "quantity")
	assert.Contains(t, q, "updated_at")
	assert.Contains(t, q, "where")
	assert.Contains(t, q, "owner_id")
	assert.Contains(t, q, "returning")

	// untouched columns never appear in the SET clause
	assert.NotContains(t, q, "category =")
	assert.NotContains(t, q, "asset_url =")
}

func Test_buildUpdateItemQuery_EmptyPatchStillStampsUpdatedAt(t *testing.T) {
	now := time.Now().UTC()

	query, args, err := buildUpdateItemQuery(42, "item-1", models.ItemPatch{}, now)
	require.NoError(t, err)

	// updated_at + 2 WHERE args
	require.Len(t, args, 3)
	assert.Contains(t, strings.ToLower(query), "updated_at")
}

func Test_buildDeleteItemQuery(t *testing.T) {
	query, args, err := buildDeleteItemQuery(42, "item-1")
	require.NoError(t, err)

	require.Len(t, args, 2)

	q := strings.ToLower(query)
	assert.Contains(t, q, "delete from pantry_items")
	assert.Contains(t, q, "id")
	assert.Contains(t, q, "owner_id")
	assert.Contains(t, query, "$1")
	assert.Contains(t, query, "$2")
}
