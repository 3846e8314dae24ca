package userservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/inkwell/internal/common"
)

func setupTestEnvironment(t *testing.T) (*UserService, *common.Cache) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	return NewUserService(db, cache), cache
}

func TestRegister(t *testing.T) {
	s, _ := setupTestEnvironment(t)
	ctx := context.Background()

	testCases := []struct {
		name        string
		userName    string
		email       string
		password    string
		expectedErr error
	}{
		{
			name:     "valid registration",
			userName: "alice",
			email:    "alice@example.com",
			password: "password123",
		},
		{
			name:        "duplicate email",
			userName:    "alice2",
			email:       "alice@example.com",
			password:    "password123",
			expectedErr: ErrDuplicateEmail,
		},
		{
			name:        "invalid email",
			userName:    "bob",
			email:       "not-an-email",
			password:    "password123",
			expectedErr: common.ValidationError{Errors: map[string]string{"email": "must be a valid email address"}},
		},
		{
			name:        "short password",
			userName:    "bob",
			email:       "bob@example.com",
			password:    "12345",
			expectedErr: common.ValidationError{Errors: map[string]string{"password": "must be between 6 and 72 characters long"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, token, err := s.Register(ctx, tc.userName, tc.email, tc.password)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.userName, user.Name)
			assert.Equal(t, RoleUser, user.Role)
			assert.True(t, user.IsActive)
			assert.Len(t, token.Plain, 26)

			// The token resolves back to the registered user.
			resolved, err := s.GetByAccessToken(ctx, token.Plain)
			assert.NoError(t, err)
			assert.Equal(t, user.ID, resolved.ID)

			// The plaintext never survives registration.
			assert.NotContains(t, string(user.Password.hash), tc.password)
		})
	}
}

func TestLogin(t *testing.T) {
	s, _ := setupTestEnvironment(t)
	ctx := context.Background()

	registered, _, err := s.Register(ctx, "alice", "alice@example.com", "password123")
	assert.NoError(t, err)

	user, token, err := s.Login(ctx, "alice@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token.Plain)

	_, _, err = s.Login(ctx, "alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email yields the same error as a wrong password.
	_, _, err = s.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.ToggleStatus(ctx, registered.ID)
	assert.NoError(t, err)

	_, _, err = s.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestGetByAccessToken(t *testing.T) {
	s, cache := setupTestEnvironment(t)
	ctx := context.Background()

	user, token, err := s.Register(ctx, "alice", "alice@example.com", "password123")
	assert.NoError(t, err)

	resolved, err := s.GetByAccessToken(ctx, token.Plain)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	// Second lookup is served from the cache.
	key := common.CacheKeyUserByAccessToken(hashToken(token.Plain))
	_, ok := cache.Get(key)
	assert.True(t, ok)

	resolved, err = s.GetByAccessToken(ctx, token.Plain)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = s.GetByAccessToken(ctx, "AAAAAAAAAAAAAAAAAAAAAAAAAA")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)

	_, err = s.GetByAccessToken(ctx, "too-short")
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"token": "invalid token"}}, err)
}

func TestUpdateProfile(t *testing.T) {
	s, _ := setupTestEnvironment(t)
	ctx := context.Background()

	user, _, err := s.Register(ctx, "alice", "alice@example.com", "password123")
	assert.NoError(t, err)

	bio := "writer of things"
	updated, err := s.UpdateProfile(ctx, user.ID, nil, &bio, nil)
	assert.NoError(t, err)
	assert.Equal(t, "alice", updated.Name)
	assert.Equal(t, "writer of things", updated.Bio)

	// Empty strings keep the old values too.
	empty := ""
	name := "Alice Example"
	updated, err = s.UpdateProfile(ctx, user.ID, &name, &empty, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Alice Example", updated.Name)
	assert.Equal(t, "writer of things", updated.Bio)
}

func TestToggleStatusRevokesTokens(t *testing.T) {
	s, _ := setupTestEnvironment(t)
	ctx := context.Background()

	user, token, err := s.Register(ctx, "alice", "alice@example.com", "password123")
	assert.NoError(t, err)

	toggled, err := s.ToggleStatus(ctx, user.ID)
	assert.NoError(t, err)
	assert.False(t, toggled.IsActive)

	// The session issued before deactivation is dead.
	_, err = s.GetByAccessToken(ctx, token.Plain)
	assert.ErrorIs(t, err, common.ErrRecordNotFound)

	toggled, err = s.ToggleStatus(ctx, user.ID)
	assert.NoError(t, err)
	assert.True(t, toggled.IsActive)

	_, err = s.ToggleStatus(ctx, user.ID+1000)
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
}

func TestCanMutate(t *testing.T) {
	owner := &User{ID: 1, Role: RoleUser}
	admin := &User{ID: 2, Role: RoleAdmin}
	other := &User{ID: 3, Role: RoleUser}

	assert.True(t, owner.CanMutate(1))
	assert.True(t, admin.CanMutate(1))
	assert.False(t, other.CanMutate(1))
	assert.False(t, AnonymousUser.CanMutate(1))
}
