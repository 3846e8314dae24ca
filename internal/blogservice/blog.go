package blogservice

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/sushihentaime/inkwell/internal/commentservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/mediaservice"
)

func NewBlogService(db *sql.DB, comments *commentservice.CommentService, media mediaservice.Store, logger *slog.Logger) *BlogService {
	return &BlogService{
		m:        NewBlogModel(db),
		comments: comments,
		media:    media,
		logger:   logger,
	}
}

// List returns a page of published posts, each with its comment thread, and
// the total match count. The filters are normalized here: "All" means every
// category, page and page size fall back to sane defaults, and the sort spec
// is resolved against the allow-list.
func (s *BlogService) List(ctx context.Context, f Filters) ([]Blog, int, error) {
	if f.Category == "All" {
		f.Category = ""
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}

	blogs, total, err := s.m.list(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	if err := s.attachComments(ctx, blogs); err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

// Get returns one post with its author and full comment thread. When
// callerID is non-zero the post's IsLiked reflects that caller. Views are
// not touched here; IncrementViews is a separate explicit operation so pure
// reads do not inflate the counter.
func (s *BlogService) Get(ctx context.Context, id, callerID int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.get(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	blog.Comments = comments

	if callerID > 0 {
		liked, err := s.m.isLikedBy(ctx, id, callerID)
		if err != nil {
			return nil, err
		}
		blog.IsLiked = liked
	}

	return blog, nil
}

func (s *BlogService) IncrementViews(ctx context.Context, id int) (int, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return 0, v.ValidationError()
	}

	return s.m.incrementViews(ctx, id)
}

// Create validates and stores a new post for the author. A cover image, when
// supplied as a data URI, is uploaded first and its public URL stored.
func (s *BlogService) Create(ctx context.Context, authorID int, in CreateBlogInput) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, in.Title)
	validateContent(v, in.Content)
	validateExcerpt(v, in.Excerpt)
	validateCategory(v, in.Category)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := &Blog{
		Title:    in.Title,
		Content:  in.Content,
		Excerpt:  in.Excerpt,
		Category: in.Category,
		Tags:     splitTags(in.Tags),
		Author:   Author{ID: authorID},
		ReadTime: computeReadTime(in.Content),
	}

	if in.CoverImage != "" {
		url, err := s.media.Upload(ctx, in.CoverImage, imageFolder)
		if err != nil {
			return nil, err
		}
		blog.Image = url
	}

	if err := s.m.insert(ctx, blog); err != nil {
		return nil, err
	}

	return s.m.get(ctx, blog.ID)
}

// Update applies a partial update: nil fields keep their current values.
// Read time is recomputed when content changes. A new cover image replaces
// the old one; deleting the old object is best-effort and never blocks the
// update.
func (s *BlogService) Update(ctx context.Context, id int, in UpdateBlogInput) (*Blog, error) {
	blog, err := s.m.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		blog.Title = *in.Title
	}
	if in.Content != nil && *in.Content != blog.Content {
		blog.Content = *in.Content
		blog.ReadTime = computeReadTime(blog.Content)
	}
	if in.Excerpt != nil {
		blog.Excerpt = *in.Excerpt
	}
	if in.Category != nil {
		blog.Category = *in.Category
	}
	if in.Tags != nil {
		blog.Tags = splitTags(*in.Tags)
	}
	if in.IsPublished != nil {
		blog.IsPublished = *in.IsPublished
	}

	v := common.NewValidator()
	validateTitle(v, blog.Title)
	validateContent(v, blog.Content)
	validateExcerpt(v, blog.Excerpt)
	validateCategory(v, blog.Category)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if in.CoverImage != nil && *in.CoverImage != "" && *in.CoverImage != blog.Image {
		if blog.Image != "" {
			s.deleteImage(ctx, blog.Image)
		}

		url, err := s.media.Upload(ctx, *in.CoverImage, imageFolder)
		if err != nil {
			return nil, err
		}
		blog.Image = url
	}

	if err := s.m.update(ctx, blog); err != nil {
		return nil, err
	}

	return s.m.get(ctx, id)
}

// Delete removes the post and everything scoped to it, then cleans up the
// cover image. The media cleanup failing does not undo the delete.
func (s *BlogService) Delete(ctx context.Context, id int) error {
	blog, err := s.m.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.m.deleteCascade(ctx, id); err != nil {
		return err
	}

	if blog.Image != "" {
		s.deleteImage(ctx, blog.Image)
	}

	return nil
}

// ToggleLike flips the caller's like and reports the new count and state.
// Any authenticated user may like any post.
func (s *BlogService) ToggleLike(ctx context.Context, id, userID int) (int, bool, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return 0, false, v.ValidationError()
	}

	if err := s.m.exists(ctx, id); err != nil {
		return 0, false, err
	}

	return s.m.toggleLike(ctx, id, userID)
}

// ListMine returns the caller's own posts, drafts included, newest first.
func (s *BlogService) ListMine(ctx context.Context, authorID, page, pageSize int) ([]Blog, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	blogs, total, err := s.m.listByAuthor(ctx, authorID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	if err := s.attachComments(ctx, blogs); err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

// attachComments fills in the comment threads for a page of posts with one
// batched lookup.
func (s *BlogService) attachComments(ctx context.Context, blogs []Blog) error {
	if len(blogs) == 0 {
		return nil
	}

	ids := make([]int, len(blogs))
	for i := range blogs {
		ids[i] = blogs[i].ID
	}

	comments, err := s.comments.ListByBlogs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range blogs {
		if thread, ok := comments[blogs[i].ID]; ok {
			blogs[i].Comments = thread
		}
	}

	return nil
}

func (s *BlogService) deleteImage(ctx context.Context, imageURL string) {
	if err := s.media.Delete(ctx, imageURL); err != nil {
		s.logger.Error("cover image cleanup failed", slog.String("image", imageURL), slog.String("error", err.Error()))
	}
}

// splitTags turns a comma separated string into trimmed, non-empty tags.
func splitTags(csv string) []string {
	tags := []string{}
	for _, tag := range strings.Split(csv, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}
