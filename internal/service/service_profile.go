package service

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/store"
	"github.com/MKhiriev/go-pantry-keeper/models"
)

// profileService is the concrete implementation of [ProfileService].
type profileService struct {
	profileRepository store.ProfileRepository
	logger            *logger.Logger
}

// NewProfileService constructs a [ProfileService] backed by the given
// repository.
func NewProfileService(profileRepository store.ProfileRepository, logger *logger.Logger) ProfileService {
	return &profileService{
		profileRepository: profileRepository,
		logger:            logger,
	}
}

// GetProfile returns the profile of the given user. Because registration
// seeds a profile for every account, store.ErrProfileNotFound here means the
// caller presented a token for an account that no longer exists.
func (s *profileService) GetProfile(ctx context.Context, userID int64) (models.Profile, error) {
	log := logger.FromContext(ctx)

	profile, err := s.profileRepository.GetProfile(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("profile lookup ended with error")
		return models.Profile{}, fmt.Errorf("profile lookup ended with error: %w", err)
	}

	return profile, nil
}

// SaveProfile validates and persists the caller's profile wholesale.
// The UserID is taken from the authenticated session by the handler layer;
// a profile can never be written under another user's identity.
//
// Returns the canonical stored profile or:
//   - ErrInvalidEmail if a non-empty email does not parse as an address.
//   - A wrapped storage error if persistence fails.
func (s *profileService) SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	log := logger.FromContext(ctx)

	if profile.Email != "" {
		if _, err := mail.ParseAddress(profile.Email); err != nil {
			log.Error().Int64("user_id", profile.UserID).Str("email", profile.Email).Msg("invalid profile email")
			return models.Profile{}, ErrInvalidEmail
		}
	}

	saved, err := s.profileRepository.SaveProfile(ctx, profile)
	if err != nil {
		log.Err(err).Int64("user_id", profile.UserID).Msg("profile save ended with error")
		return models.Profile{}, fmt.Errorf("profile save ended with error: %w", err)
	}

	return saved, nil
}
