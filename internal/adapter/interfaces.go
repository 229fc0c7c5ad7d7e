// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating
// with the pantry server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// core from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) that also consumes the server's
// live snapshot stream.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-pantry-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the pantry
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It is called automatically after a
	// successful Register or Login.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register creates a new account. On success it stores the returned
	// bearer token via SetToken and returns the user with the server-assigned
	// UserID filled in.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates an existing account. On success it stores the
	// returned bearer token via SetToken and returns the user with the
	// server-side UserID filled in.
	Login(ctx context.Context, user models.User) (models.User, error)

	// CreateItem submits a new item draft and returns the canonical stored
	// record, including its server-assigned identifier.
	CreateItem(ctx context.Context, draft models.ItemDraft) (models.Item, error)

	// UpdateItem submits a partial update of the addressed item and returns
	// the updated record. Returns [ErrNotFound] (wrapped) when the item does
	// not exist in the caller's scope.
	UpdateItem(ctx context.Context, itemID string, patch models.ItemPatch) (models.Item, error)

	// DeleteItem removes the addressed item. Returns [ErrNotFound] (wrapped)
	// when the item does not exist in the caller's scope.
	DeleteItem(ctx context.Context, itemID string) error

	// GetItems fetches one complete snapshot of the caller's record set.
	// A non-empty name narrows the snapshot to items with that exact name.
	GetItems(ctx context.Context, name string) (models.Snapshot, error)

	// WatchItems opens the live snapshot stream. The returned channel first
	// delivers the complete current record set and then a fresh snapshot
	// after every server-side change. The channel is closed when the stream
	// ends for any reason; cancelling ctx tears the stream down.
	WatchItems(ctx context.Context, name string) (<-chan models.Snapshot, error)

	// UploadItemImage stores an item image in the server's object store and
	// returns its retrieval URL. Nothing else changes on the server: the
	// caller attaches the URL to a record in a separate operation.
	UploadItemImage(ctx context.Context, asset models.Asset) (string, error)

	// UploadAvatar stores a profile avatar and returns its retrieval URL.
	UploadAvatar(ctx context.Context, asset models.Asset) (string, error)

	// GetProfile fetches the caller's profile record.
	GetProfile(ctx context.Context) (models.Profile, error)

	// SaveProfile replaces the caller's profile record and returns the
	// stored version.
	SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
}
