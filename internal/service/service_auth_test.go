package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-pantry-keeper/internal/config"
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/store"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mocks: store.UserRepository / store.ProfileRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createFn func(ctx context.Context, user models.User) (models.User, error)
	findFn   func(ctx context.Context, email string) (models.User, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.UserID = 1
	return user, nil
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findFn != nil {
		return m.findFn(ctx, email)
	}
	return models.User{}, store.ErrNoUserWasFound
}

type mockProfileRepository struct {
	getFn  func(ctx context.Context, userID int64) (models.Profile, error)
	saveFn func(ctx context.Context, profile models.Profile) (models.Profile, error)
}

func (m *mockProfileRepository) GetProfile(ctx context.Context, userID int64) (models.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return models.Profile{}, store.ErrProfileNotFound
}

func (m *mockProfileRepository) SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, profile)
	}
	return profile, nil
}

func newTestAuthService(users *mockUserRepository, profiles *mockProfileRepository) AuthService {
	cfg := config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "pantry-keeper-test",
		TokenDuration: time.Hour,
	}
	return NewAuthService(users, profiles, cfg, logger.Nop())
}

// ─────────────────────────────────────────────
// RegisterUser
// ─────────────────────────────────────────────

func TestRegisterUser_Success(t *testing.T) {
	var savedProfile models.Profile
	users := &mockUserRepository{
		createFn: func(ctx context.Context, user models.User) (models.User, error) {
			user.UserID = 7
			return user, nil
		},
	}
	profiles := &mockProfileRepository{
		saveFn: func(ctx context.Context, profile models.Profile) (models.Profile, error) {
			savedProfile = profile
			return profile, nil
		},
	}
	svc := newTestAuthService(users, profiles)

	registered, err := svc.RegisterUser(context.Background(), models.User{
		Email:     "john@example.com",
		Password:  "long-enough-password",
		FirstName: "John",
		LastName:  "Smith",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), registered.UserID)
	assert.Empty(t, registered.Password, "plain-text password must not survive registration")
	assert.NotEmpty(t, registered.PasswordHash)

	// the initial profile is seeded from the sign-up data
	assert.Equal(t, int64(7), savedProfile.UserID)
	assert.Equal(t, "John", savedProfile.FirstName)
	assert.Equal(t, "john@example.com", savedProfile.Email)
}

func TestRegisterUser_InvalidEmail(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockProfileRepository{})

	_, err := svc.RegisterUser(context.Background(), models.User{
		Email:    "not-an-email",
		Password: "long-enough-password",
	})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestRegisterUser_WeakPassword(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockProfileRepository{})

	_, err := svc.RegisterUser(context.Background(), models.User{
		Email:    "john@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegisterUser_EmailTaken(t *testing.T) {
	users := &mockUserRepository{
		createFn: func(ctx context.Context, user models.User) (models.User, error) {
			return models.User{}, store.ErrEmailAlreadyExists
		},
	}
	svc := newTestAuthService(users, &mockProfileRepository{})

	_, err := svc.RegisterUser(context.Background(), models.User{
		Email:    "taken@example.com",
		Password: "long-enough-password",
	})
	assert.ErrorIs(t, err, store.ErrEmailAlreadyExists)
}

func TestRegisterUser_ProfileSeedFailure(t *testing.T) {
	profiles := &mockProfileRepository{
		saveFn: func(ctx context.Context, profile models.Profile) (models.Profile, error) {
			return models.Profile{}, errors.New("db down")
		},
	}
	svc := newTestAuthService(&mockUserRepository{}, profiles)

	_, err := svc.RegisterUser(context.Background(), models.User{
		Email:    "john@example.com",
		Password: "long-enough-password",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial profile creation")
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func registeredUserFixture(t *testing.T, password string) models.User {
	t.Helper()

	var stored models.User
	users := &mockUserRepository{
		createFn: func(ctx context.Context, user models.User) (models.User, error) {
			user.UserID = 7
			stored = user
			return user, nil
		},
	}
	svc := newTestAuthService(users, &mockProfileRepository{})

	_, err := svc.RegisterUser(context.Background(), models.User{
		Email:    "john@example.com",
		Password: password,
	})
	require.NoError(t, err)
	return stored
}

func TestLogin_Success(t *testing.T) {
	stored := registeredUserFixture(t, "long-enough-password")

	users := &mockUserRepository{
		findFn: func(ctx context.Context, email string) (models.User, error) {
			return stored, nil
		},
	}
	svc := newTestAuthService(users, &mockProfileRepository{})

	authenticated, err := svc.Login(context.Background(), models.User{
		Email:    "john@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), authenticated.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	stored := registeredUserFixture(t, "long-enough-password")

	users := &mockUserRepository{
		findFn: func(ctx context.Context, email string) (models.User, error) {
			return stored, nil
		},
	}
	svc := newTestAuthService(users, &mockProfileRepository{})

	_, err := svc.Login(context.Background(), models.User{
		Email:    "john@example.com",
		Password: "a-different-password",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLogin_UnknownAccountIndistinguishableFromWrongPassword(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockProfileRepository{})

	_, err := svc.Login(context.Background(), models.User{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLogin_EmptyCredentials(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockProfileRepository{})

	_, err := svc.Login(context.Background(), models.User{})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ─────────────────────────────────────────────
// Tokens
// ─────────────────────────────────────────────

func TestCreateToken_AndParseToken_RoundTrip(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockProfileRepository{})

	token, err := svc.CreateToken(context.Background(), models.User{UserID: 7})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(context.Background(), token.SignedString)
	require.NoError(t, err)

	userID, err := parsed.GetUserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestParseToken_Garbage(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, &mockProfileRepository{})

	_, err := svc.ParseToken(context.Background(), "definitely.not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
