package commentservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/inkwell/internal/common"
)

func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{m: newCommentModel(db)}
}

// ListByBlog returns the full comment thread for a post, newest first.
func (s *CommentService) ListByBlog(ctx context.Context, blogID int) ([]Comment, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.listByBlog(ctx, blogID)
}

// ListByBlogs returns the comment threads for a set of posts keyed by blog
// id; posts without comments have no entry in the map.
func (s *CommentService) ListByBlogs(ctx context.Context, blogIDs []int) (map[int][]Comment, error) {
	if len(blogIDs) == 0 {
		return map[int][]Comment{}, nil
	}

	ids := make([]int64, len(blogIDs))
	for i, id := range blogIDs {
		ids[i] = int64(id)
	}

	return s.m.listByBlogs(ctx, ids)
}

// Create adds a comment to a published or unpublished post alike; the post
// must exist.
func (s *CommentService) Create(ctx context.Context, blogID, authorID int, content string) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.blogExists(ctx, blogID); err != nil {
		return nil, err
	}

	c := &Comment{
		BlogID:  blogID,
		Content: content,
		Author:  Author{ID: authorID},
		Replies: []Reply{},
	}
	if err := s.m.insert(ctx, c); err != nil {
		return nil, err
	}

	return s.m.getByID(ctx, c.ID)
}

func (s *CommentService) Get(ctx context.Context, id int) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, id)
}

// Update replaces the comment body and marks the comment as edited.
func (s *CommentService) Update(ctx context.Context, id int, content string) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.update(ctx, id, content); err != nil {
		return nil, err
	}

	return s.m.getByID(ctx, id)
}

func (s *CommentService) Delete(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.delete(ctx, id)
}

// ToggleLike flips the caller's like on a comment and reports the new count
// and whether the caller now likes it.
func (s *CommentService) ToggleLike(ctx context.Context, id, userID int) (int, bool, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return 0, false, v.ValidationError()
	}

	if _, err := s.m.getByID(ctx, id); err != nil {
		return 0, false, err
	}

	return s.m.toggleLike(ctx, id, userID)
}

// Reply appends a one-level reply to a comment and returns the refreshed
// comment with its reply list.
func (s *CommentService) Reply(ctx context.Context, commentID, authorID int, content string) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, commentID, "comment_id")
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if _, err := s.m.getByID(ctx, commentID); err != nil {
		return nil, err
	}

	if err := s.m.insertReply(ctx, commentID, authorID, content); err != nil {
		return nil, err
	}

	return s.m.getByID(ctx, commentID)
}
