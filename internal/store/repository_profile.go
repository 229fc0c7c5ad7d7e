package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/models"
)

// profileRepository is the SQL-backed implementation of [ProfileRepository].
// Exactly one profile row exists per user; writes are upserts keyed by
// user_id, so a profile save never fails because the row is missing.
type profileRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewProfileRepository constructs a [ProfileRepository] backed by the
// provided database connection and logger.
func NewProfileRepository(db *DB, logger *logger.Logger) ProfileRepository {
	logger.Debug().Msg("creating profile repository")
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

// GetProfile retrieves the profile record for the given user.
//
// Error handling:
//   - No matching row → [ErrProfileNotFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *profileRepository) GetProfile(ctx context.Context, userID int64) (models.Profile, error) {
	log := logger.FromContext(ctx)

	var profile models.Profile
	row := r.db.queryRowRetry(ctx, getProfile, userID)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*profileRepository.GetProfile").Int64("user_id", userID).Msg("error: row is nil")
		return models.Profile{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := row.Scan(&profile.UserID, &profile.FirstName, &profile.LastName, &profile.Email, &profile.Bio, &profile.SocialMedia, &profile.AvatarURL); err != nil {
		if isNoRows(err) {
			return models.Profile{}, ErrProfileNotFound
		}
		log.Err(err).Str("func", "*profileRepository.GetProfile").Int64("user_id", userID).Msg("error: scanning error")
		return models.Profile{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return profile, nil
}

// SaveProfile upserts the profile record for profile.UserID and returns the
// canonical stored representation.
func (r *profileRepository) SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	log := logger.FromContext(ctx)

	row := r.db.queryRowRetry(ctx, saveProfile,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.Bio,
		profile.SocialMedia,
		profile.AvatarURL,
	)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*profileRepository.SaveProfile").Int64("user_id", profile.UserID).Msg("error: row is nil")
		return models.Profile{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var saved models.Profile
	if err := row.Scan(&saved.UserID, &saved.FirstName, &saved.LastName, &saved.Email, &saved.Bio, &saved.SocialMedia, &saved.AvatarURL); err != nil {
		log.Err(err).Str("func", "*profileRepository.SaveProfile").Int64("user_id", profile.UserID).Msg("error: scanning error")
		return models.Profile{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	log.Debug().Str("func", "*profileRepository.SaveProfile").Int64("user_id", saved.UserID).Msg("profile saved")

	return saved, nil
}
