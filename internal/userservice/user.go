package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrAccountDeactivated = errors.New("account is deactivated")
)

func NewUserService(db *sql.DB, c *common.Cache) *UserService {
	return &UserService{
		m: NewUserModel(db),
		t: NewTokenModel(db),
		c: c,
	}
}

// Register creates a new user account and issues its first bearer token.
// New accounts are active immediately.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*User, *Token, error) {
	v := common.NewValidator()
	validateName(v, name)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	u := User{
		Name:     name,
		Email:    email,
		Password: Password{Plain: password},
	}

	err := u.Password.set(u.Password.Plain)
	if err != nil {
		return nil, nil, err
	}

	err = s.m.insert(ctx, &u)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.t.createToken(ctx, u.ID, AccessTokenTime)
	if err != nil {
		return nil, nil, err
	}

	return &u, token, nil
}

// Login verifies the credentials and issues a fresh bearer token. A
// deactivated account fails with ErrAccountDeactivated even when the
// password is correct.
func (s *UserService) Login(ctx context.Context, email, password string) (*User, *Token, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	user, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, nil, ErrInvalidCredentials
		default:
			return nil, nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, ErrAccountDeactivated
	}

	if err := s.t.deleteExpired(ctx, user.ID); err != nil {
		return nil, nil, err
	}

	token, err := s.t.createToken(ctx, user.ID, AccessTokenTime)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// GetByAccessToken resolves a bearer token to its user. Lookups are served
// from the cache for up to a minute before hitting the database again.
func (s *UserService) GetByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)

	key := common.CacheKeyUserByAccessToken(hash)
	if cached, ok := s.c.Get(key); ok {
		return cached.(*User), nil
	}

	user, err := s.t.getUser(ctx, hash)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, user, tokenCacheTime)

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, id)
}

// UpdateProfile applies a partial update: nil fields keep their current
// value, as do fields provided as empty strings.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, name, bio, avatar *string) (*User, error) {
	user, err := s.m.getByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name != nil && *name != "" {
		user.Name = *name
	}
	if bio != nil && *bio != "" {
		user.Bio = *bio
	}
	if avatar != nil && *avatar != "" {
		user.Avatar = *avatar
	}

	v := common.NewValidator()
	validateName(v, user.Name)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Profile returns the public view of a user: the record itself, their
// published posts, and aggregate stats over those posts.
func (s *UserService) Profile(ctx context.Context, id int) (*Profile, error) {
	user, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	posts, err := s.m.profilePosts(ctx, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.m.profileStats(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Profile{User: *user, Posts: posts, Stats: *stats}, nil
}

// ToggleStatus flips a user's active flag. Deactivation revokes every
// issued token in the same transaction, so existing sessions end
// immediately rather than at next login.
func (s *UserService) ToggleStatus(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	user, err := s.m.toggleStatus(tx, ctx, id)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if !user.IsActive {
		if err := s.t.deleteForUser(tx, ctx, id); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// Token hashes are not recoverable from the user id, so drop the whole
	// token cache rather than hunt for this user's entries.
	s.c.Flush()

	return user, nil
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanMutate is the owner-or-admin rule applied before every update or
// delete on a blog or comment.
func (u *User) CanMutate(ownerID int) bool {
	return u.ID == ownerID || u.IsAdmin()
}
