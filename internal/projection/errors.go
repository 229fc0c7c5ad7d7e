package projection

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the parent of every local validation failure.
	// Nothing leaves the client when validation fails.
	ErrValidation = errors.New("validation failed")

	ErrEmptyName       = fmt.Errorf("%w: item name must not be empty", ErrValidation)
	ErrInvalidQuantity = fmt.Errorf("%w: item quantity must be a positive number", ErrValidation)
	ErrEmptyPatch      = fmt.Errorf("%w: update carries no field changes", ErrValidation)

	// ErrAssetUpload marks a failed image upload. The record operation it
	// belonged to was aborted before anything was written.
	ErrAssetUpload = errors.New("asset upload failed")

	// ErrStoreWrite marks a failed server-side record write.
	ErrStoreWrite = errors.New("record write failed")

	// ErrUnknownRecord is returned for mutations addressing an item that is
	// not present in the projection.
	ErrUnknownRecord = errors.New("unknown record")

	// ErrOperationInFlight rejects a duplicate submission while the first
	// one has not finished.
	ErrOperationInFlight = errors.New("operation already in flight")

	// ErrNoSession is returned for mutations attempted without an
	// authenticated session attached.
	ErrNoSession = errors.New("no authenticated session")
)
