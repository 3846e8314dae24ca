package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sushihentaime/inkwell/internal/commentservice"
	"github.com/sushihentaime/inkwell/internal/common"
)

func NewBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

const blogColumns = `
	b.id, b.title, b.content, b.excerpt, b.category, b.tags, b.image,
	b.views, b.is_published, b.read_time, b.created_at, b.updated_at, b.version,
	u.id, u.name, u.avatar, u.bio,
	(SELECT COUNT(*) FROM blog_likes bl WHERE bl.blog_id = b.id) AS likes,
	(SELECT COUNT(*) FROM comments c WHERE c.blog_id = b.id) AS comment_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*Blog, error) {
	var b Blog

	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Content,
		&b.Excerpt,
		&b.Category,
		pq.Array(&b.Tags),
		&b.Image,
		&b.Views,
		&b.IsPublished,
		&b.ReadTime,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Version,
		&b.Author.ID,
		&b.Author.Name,
		&b.Author.Avatar,
		&b.Author.Bio,
		&b.Likes,
		&b.CommentCount,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	b.Comments = []commentservice.Comment{}

	return &b, nil
}

func (m *BlogModel) insert(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (title, content, excerpt, category, tags, image, author_id, read_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, views, is_published, created_at, updated_at, version`

	args := []any{
		b.Title,
		b.Content,
		b.Excerpt,
		b.Category,
		pq.Array(b.Tags),
		b.Image,
		b.Author.ID,
		b.ReadTime,
	}

	return m.db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.Views,
		&b.IsPublished,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Version,
	)
}

func (m *BlogModel) get(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs b
		JOIN users u ON b.author_id = u.id
		WHERE b.id = $1`

	return scanBlog(m.db.QueryRowContext(ctx, query, id))
}

func (m *BlogModel) exists(ctx context.Context, id int) error {
	var exists bool

	err := m.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM blogs WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrRecordNotFound
	}

	return nil
}

// list returns one page of published posts matching the filters, plus the
// total match count via a window function so a second COUNT query is not
// needed.
func (m *BlogModel) list(ctx context.Context, f Filters) ([]Blog, int, error) {
	query := `
		SELECT ` + blogColumns + `, COUNT(*) OVER() AS total
		FROM blogs b
		JOIN users u ON b.author_id = u.id
		WHERE b.is_published = TRUE
			AND ($1 = '' OR b.category = $1)
			AND ($2 = '' OR b.search @@ plainto_tsquery('english', $2))
			AND ($3::text[] IS NULL OR b.tags && $3::text[])
			AND ($4 = 0 OR b.author_id = $4)
		ORDER BY ` + sortClause(f.Sort) + `, b.id DESC
		LIMIT $5 OFFSET $6`

	var tags any
	if len(f.Tags) > 0 {
		tags = pq.Array(f.Tags)
	}

	args := []any{
		f.Category,
		f.Search,
		tags,
		f.AuthorID,
		f.PageSize,
		(f.Page - 1) * f.PageSize,
	}

	return m.scanBlogPage(ctx, query, args...)
}

// listByAuthor includes unpublished posts; it backs the owner's own listing.
func (m *BlogModel) listByAuthor(ctx context.Context, authorID, page, pageSize int) ([]Blog, int, error) {
	query := `
		SELECT ` + blogColumns + `, COUNT(*) OVER() AS total
		FROM blogs b
		JOIN users u ON b.author_id = u.id
		WHERE b.author_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3`

	return m.scanBlogPage(ctx, query, authorID, pageSize, (page-1)*pageSize)
}

func (m *BlogModel) scanBlogPage(ctx context.Context, query string, args ...any) ([]Blog, int, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	blogs := []Blog{}
	for rows.Next() {
		var b Blog
		err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Content,
			&b.Excerpt,
			&b.Category,
			pq.Array(&b.Tags),
			&b.Image,
			&b.Views,
			&b.IsPublished,
			&b.ReadTime,
			&b.CreatedAt,
			&b.UpdatedAt,
			&b.Version,
			&b.Author.ID,
			&b.Author.Name,
			&b.Author.Avatar,
			&b.Author.Bio,
			&b.Likes,
			&b.CommentCount,
			&total,
		)
		if err != nil {
			return nil, 0, err
		}
		b.Comments = []commentservice.Comment{}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

func (m *BlogModel) update(ctx context.Context, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, content = $2, excerpt = $3, category = $4, tags = $5,
			image = $6, is_published = $7, read_time = $8,
			updated_at = NOW(), version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING updated_at, version`

	args := []any{
		b.Title,
		b.Content,
		b.Excerpt,
		b.Category,
		pq.Array(b.Tags),
		b.Image,
		b.IsPublished,
		b.ReadTime,
		b.ID,
		b.Version,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&b.UpdatedAt, &b.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// The row was read moments ago, so a miss here means the
			// version moved underneath us rather than the post vanishing.
			return common.ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) incrementViews(ctx context.Context, id int) (int, error) {
	query := `
		UPDATE blogs
		SET views = views + 1
		WHERE id = $1
		RETURNING views`

	var views int
	err := m.db.QueryRowContext(ctx, query, id).Scan(&views)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, common.ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return views, nil
}

func (m *BlogModel) toggleLike(ctx context.Context, id, userID int) (int, bool, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM blog_likes WHERE blog_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		_ = tx.Rollback()
		return 0, false, err
	}

	removed, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, false, err
	}

	liked := removed == 0
	if liked {
		_, err = tx.ExecContext(ctx, `INSERT INTO blog_likes (blog_id, user_id) VALUES ($1, $2)`, id, userID)
		if err != nil {
			_ = tx.Rollback()
			return 0, false, err
		}
	}

	var likes int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_likes WHERE blog_id = $1`, id).Scan(&likes)
	if err != nil {
		_ = tx.Rollback()
		return 0, false, err
	}

	if err := tx.Commit(); err != nil {
		return 0, false, err
	}

	return likes, liked, nil
}

func (m *BlogModel) isLikedBy(ctx context.Context, id, userID int) (bool, error) {
	var liked bool

	err := m.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM blog_likes WHERE blog_id = $1 AND user_id = $2)`,
		id, userID).Scan(&liked)
	if err != nil {
		return false, err
	}

	return liked, nil
}

// deleteCascade removes a post and everything scoped to it in one
// transaction: reply rows, comment likes, comments, and post likes. The like
// join table is the only record of who liked the post, so deleting it leaves
// nothing dangling on any user.
func (m *BlogModel) deleteCascade(ctx context.Context, id int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	steps := []string{
		`DELETE FROM replies WHERE comment_id IN (SELECT id FROM comments WHERE blog_id = $1)`,
		`DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE blog_id = $1)`,
		`DELETE FROM comments WHERE blog_id = $1`,
		`DELETE FROM blog_likes WHERE blog_id = $1`,
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, id); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if rows == 0 {
		_ = tx.Rollback()
		return common.ErrRecordNotFound
	}

	return tx.Commit()
}
