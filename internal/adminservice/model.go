package adminservice

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

func newAdminModel(db *sql.DB) *AdminModel {
	return &AdminModel{db: db}
}

func (m *AdminModel) counts(ctx context.Context, s *Stats) error {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM blogs),
			(SELECT COUNT(*) FROM comments),
			(SELECT COUNT(*) FROM users WHERE is_active = TRUE)`

	return m.db.QueryRowContext(ctx, query).Scan(&s.TotalUsers, &s.TotalBlogs, &s.TotalComments, &s.ActiveUsers)
}

const summaryColumns = `
	b.id, b.title, b.category, b.views,
	(SELECT COUNT(*) FROM blog_likes bl WHERE bl.blog_id = b.id) AS likes,
	b.is_published, b.created_at,
	u.id, u.name, u.email, u.avatar`

func (m *AdminModel) recentBlogs(ctx context.Context, limit int) ([]BlogSummary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM blogs b
		JOIN users u ON b.author_id = u.id
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $1`

	return m.scanSummaries(ctx, query, limit)
}

// popularBlogs ranks by views, breaking ties on like count.
func (m *AdminModel) popularBlogs(ctx context.Context, limit int) ([]BlogSummary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM blogs b
		JOIN users u ON b.author_id = u.id
		ORDER BY b.views DESC, likes DESC, b.id DESC
		LIMIT $1`

	return m.scanSummaries(ctx, query, limit)
}

// listBlogs searches title and content case-insensitively across published
// and unpublished posts alike.
func (m *AdminModel) listBlogs(ctx context.Context, search string, page, pageSize int) ([]BlogSummary, int, error) {
	query := `
		SELECT ` + summaryColumns + `, COUNT(*) OVER() AS total
		FROM blogs b
		JOIN users u ON b.author_id = u.id
		WHERE ($1 = '' OR b.title ILIKE '%' || $1 || '%' OR b.content ILIKE '%' || $1 || '%')
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, search, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	blogs := []BlogSummary{}
	for rows.Next() {
		var b BlogSummary
		err := rows.Scan(
			&b.ID, &b.Title, &b.Category, &b.Views, &b.Likes, &b.IsPublished, &b.CreatedAt,
			&b.Author.ID, &b.Author.Name, &b.Author.Email, &b.Author.Avatar,
			&total,
		)
		if err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, b)
	}

	return blogs, total, rows.Err()
}

func (m *AdminModel) listUsers(ctx context.Context, search string, page, pageSize int) ([]UserSummary, int, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role, u.avatar, u.is_active, u.created_at,
			COALESCE(
				(SELECT array_agg(b.title ORDER BY b.created_at DESC) FROM blogs b WHERE b.author_id = u.id),
				'{}'::text[]) AS blogs,
			COUNT(*) OVER() AS total
		FROM users u
		WHERE ($1 = '' OR u.name ILIKE '%' || $1 || '%' OR u.email ILIKE '%' || $1 || '%')
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, search, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	users := []UserSummary{}
	for rows.Next() {
		var u UserSummary
		err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.Role, &u.Avatar, &u.IsActive, &u.CreatedAt,
			pq.Array(&u.Blogs),
			&total,
		)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}

	return users, total, rows.Err()
}

func (m *AdminModel) scanSummaries(ctx context.Context, query string, args ...any) ([]BlogSummary, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []BlogSummary{}
	for rows.Next() {
		var b BlogSummary
		err := rows.Scan(
			&b.ID, &b.Title, &b.Category, &b.Views, &b.Likes, &b.IsPublished, &b.CreatedAt,
			&b.Author.ID, &b.Author.Name, &b.Author.Email, &b.Author.Avatar,
		)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}

	return blogs, rows.Err()
}
