package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrWeakPassword        = errors.New("password is too short")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrValidationEmptyItemName   = errors.New("item name must not be empty")
	ErrValidationBadQuantity     = errors.New("item quantity must be a non-negative number")
	ErrValidationEmptyPatch      = errors.New("update carries no field changes")
	ErrValidationNoAssetData     = errors.New("no asset data provided")
	ErrValidationNoAssetFileName = errors.New("asset file name must not be empty")
)
