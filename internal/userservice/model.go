package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
)

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

func (m *UserModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, role, avatar, bio, is_active, created_at, updated_at, version`

	args := []any{
		u.Name,
		u.Email,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID,
		&u.Role,
		&u.Avatar,
		&u.Bio,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Version,
	)
	if err != nil {
		var pqErr *pq.Error
		switch {
		case errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "users_email_key":
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	return nil
}

const userColumns = `id, name, email, password, role, avatar, bio, is_active, created_at, updated_at, version`

func (m *UserModel) scanUser(row *sql.Row) (*User, error) {
	var u User

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Password.hash,
		&u.Role,
		&u.Avatar,
		&u.Bio,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`

	return m.scanUser(m.db.QueryRowContext(ctx, query, email))
}

func (m *UserModel) getByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	return m.scanUser(m.db.QueryRowContext(ctx, query, id))
}

func (m *UserModel) update(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET name = $1, bio = $2, avatar = $3, updated_at = NOW(), version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING updated_at, version`

	err := m.db.QueryRowContext(ctx, query, u.Name, u.Bio, u.Avatar, u.ID, u.Version).Scan(&u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) toggleStatus(tx *sql.Tx, ctx context.Context, id int) (*User, error) {
	query := `
		UPDATE users
		SET is_active = NOT is_active, updated_at = NOW(), version = version + 1
		WHERE id = $1
		RETURNING id, name, email, role, avatar, bio, is_active, created_at, updated_at, version`

	var u User
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.Avatar,
		&u.Bio,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

// profilePosts lists a user's published posts, newest first, with like counts.
func (m *UserModel) profilePosts(ctx context.Context, userID int) ([]ProfilePost, error) {
	query := `
		SELECT b.id, b.title, b.excerpt, b.category, b.views,
			(SELECT COUNT(*) FROM blog_likes bl WHERE bl.blog_id = b.id) AS likes,
			b.created_at
		FROM blogs b
		WHERE b.author_id = $1 AND b.is_published = TRUE
		ORDER BY b.created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []ProfilePost{}
	for rows.Next() {
		var p ProfilePost
		err := rows.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Category, &p.Views, &p.Likes, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *UserModel) profileStats(ctx context.Context, userID int) (*ProfileStats, error) {
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(b.views), 0),
			COALESCE(SUM((SELECT COUNT(*) FROM blog_likes bl WHERE bl.blog_id = b.id)), 0)
		FROM blogs b
		WHERE b.author_id = $1 AND b.is_published = TRUE`

	var stats ProfileStats
	err := m.db.QueryRowContext(ctx, query, userID).Scan(&stats.BlogCount, &stats.TotalViews, &stats.TotalLikes)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
