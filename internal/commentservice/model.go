package commentservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sushihentaime/inkwell/internal/common"
)

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

func (m *CommentModel) blogExists(ctx context.Context, blogID int) error {
	var exists bool

	err := m.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM blogs WHERE id = $1)`, blogID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrRecordNotFound
	}

	return nil
}

func (m *CommentModel) insert(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (blog_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_edited, created_at, updated_at`

	return m.db.QueryRowContext(ctx, query, c.BlogID, c.Author.ID, c.Content).Scan(&c.ID, &c.IsEdited, &c.CreatedAt, &c.UpdatedAt)
}

const commentColumns = `
	c.id, c.blog_id, c.content, c.is_edited, c.created_at, c.updated_at,
	u.id, u.name, u.avatar,
	(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS likes`

func (m *CommentModel) getByID(ctx context.Context, id int) (*Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.id = $1`

	var c Comment
	err := m.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.BlogID,
		&c.Content,
		&c.IsEdited,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.Author.ID,
		&c.Author.Name,
		&c.Author.Avatar,
		&c.Likes,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	replies, err := m.listReplies(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Replies = replies

	return &c, nil
}

// listByBlog returns every comment on a post, newest first, with authors,
// like counts, and replies attached.
func (m *CommentModel) listByBlog(ctx context.Context, blogID int) ([]Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.blog_id = $1
		ORDER BY c.created_at DESC, c.id DESC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		err := rows.Scan(
			&c.ID,
			&c.BlogID,
			&c.Content,
			&c.IsEdited,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Author.ID,
			&c.Author.Name,
			&c.Author.Avatar,
			&c.Likes,
		)
		if err != nil {
			return nil, err
		}
		c.Replies = []Reply{}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	replies, err := m.listRepliesByBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}

	for i := range comments {
		if r, ok := replies[comments[i].ID]; ok {
			comments[i].Replies = r
		}
	}

	return comments, nil
}

// listByBlogs returns the comment threads for a set of posts keyed by blog
// id, each thread newest first with authors, like counts, and replies
// attached. Two queries cover the whole page regardless of its size.
func (m *CommentModel) listByBlogs(ctx context.Context, blogIDs []int64) (map[int][]Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.blog_id = ANY($1::int[])
		ORDER BY c.created_at DESC, c.id DESC`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(blogIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make(map[int][]Comment)
	for rows.Next() {
		var c Comment
		err := rows.Scan(
			&c.ID,
			&c.BlogID,
			&c.Content,
			&c.IsEdited,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Author.ID,
			&c.Author.Name,
			&c.Author.Avatar,
			&c.Likes,
		)
		if err != nil {
			return nil, err
		}
		c.Replies = []Reply{}
		comments[c.BlogID] = append(comments[c.BlogID], c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	replies, err := m.listRepliesByBlogs(ctx, blogIDs)
	if err != nil {
		return nil, err
	}

	for blogID, thread := range comments {
		for i := range thread {
			if r, ok := replies[thread[i].ID]; ok {
				thread[i].Replies = r
			}
		}
		comments[blogID] = thread
	}

	return comments, nil
}

func (m *CommentModel) listReplies(ctx context.Context, commentID int) ([]Reply, error) {
	query := `
		SELECT r.content, r.created_at, u.id, u.name, u.avatar
		FROM replies r
		JOIN users u ON r.author_id = u.id
		WHERE r.comment_id = $1
		ORDER BY r.created_at ASC, r.id ASC`

	rows, err := m.db.QueryContext(ctx, query, commentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := []Reply{}
	for rows.Next() {
		var r Reply
		err := rows.Scan(&r.Content, &r.CreatedAt, &r.Author.ID, &r.Author.Name, &r.Author.Avatar)
		if err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}

	return replies, rows.Err()
}

func (m *CommentModel) listRepliesByBlog(ctx context.Context, blogID int) (map[int][]Reply, error) {
	query := `
		SELECT r.comment_id, r.content, r.created_at, u.id, u.name, u.avatar
		FROM replies r
		JOIN users u ON r.author_id = u.id
		JOIN comments c ON r.comment_id = c.id
		WHERE c.blog_id = $1
		ORDER BY r.created_at ASC, r.id ASC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := make(map[int][]Reply)
	for rows.Next() {
		var commentID int
		var r Reply
		err := rows.Scan(&commentID, &r.Content, &r.CreatedAt, &r.Author.ID, &r.Author.Name, &r.Author.Avatar)
		if err != nil {
			return nil, err
		}
		replies[commentID] = append(replies[commentID], r)
	}

	return replies, rows.Err()
}

func (m *CommentModel) listRepliesByBlogs(ctx context.Context, blogIDs []int64) (map[int][]Reply, error) {
	query := `
		SELECT r.comment_id, r.content, r.created_at, u.id, u.name, u.avatar
		FROM replies r
		JOIN users u ON r.author_id = u.id
		JOIN comments c ON r.comment_id = c.id
		WHERE c.blog_id = ANY($1::int[])
		ORDER BY r.created_at ASC, r.id ASC`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(blogIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := make(map[int][]Reply)
	for rows.Next() {
		var commentID int
		var r Reply
		err := rows.Scan(&commentID, &r.Content, &r.CreatedAt, &r.Author.ID, &r.Author.Name, &r.Author.Avatar)
		if err != nil {
			return nil, err
		}
		replies[commentID] = append(replies[commentID], r)
	}

	return replies, rows.Err()
}

func (m *CommentModel) update(ctx context.Context, id int, content string) error {
	query := `
		UPDATE comments
		SET content = $1, is_edited = TRUE, updated_at = NOW()
		WHERE id = $2`

	res, err := m.db.ExecContext(ctx, query, content, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return common.ErrRecordNotFound
	}

	return nil
}

// delete removes a comment together with its replies and likes. With the
// comment row gone it no longer appears in its blog's comment set; there is
// no mirrored reference array to pull from.
func (m *CommentModel) delete(ctx context.Context, id int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	steps := []string{
		`DELETE FROM replies WHERE comment_id = $1`,
		`DELETE FROM comment_likes WHERE comment_id = $1`,
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, id); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
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

// toggleLike removes the caller's like if present, otherwise adds it, and
// returns the resulting count and state.
func (m *CommentModel) toggleLike(ctx context.Context, id, userID int) (int, bool, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`, id, userID)
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
		_, err = tx.ExecContext(ctx, `INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)`, id, userID)
		if err != nil {
			_ = tx.Rollback()
			return 0, false, err
		}
	}

	var likes int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1`, id).Scan(&likes)
	if err != nil {
		_ = tx.Rollback()
		return 0, false, err
	}

	if err := tx.Commit(); err != nil {
		return 0, false, err
	}

	return likes, liked, nil
}

func (m *CommentModel) insertReply(ctx context.Context, commentID, authorID int, content string) error {
	query := `
		INSERT INTO replies (comment_id, author_id, content)
		VALUES ($1, $2, $3)`

	_, err := m.db.ExecContext(ctx, query, commentID, authorID, content)
	return err
}
