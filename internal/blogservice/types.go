package blogservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/inkwell/internal/commentservice"
	"github.com/sushihentaime/inkwell/internal/mediaservice"
)

// Categories is the fixed set of blog categories accepted on create and
// update. "All" is a listing filter value, not a category.
var Categories = []string{
	"Technology", "Lifestyle", "Travel", "Food", "Health",
	"Business", "Education", "Entertainment", "Sports", "Other",
}

const (
	imageFolder = "blog-images"

	defaultPageSize = 6
	maxPageSize     = 100
)

// Author is the trimmed user view attached to a blog. Bio is only populated
// on single-post reads.
type Author struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio,omitempty"`
}

type Blog struct {
	ID           int                      `json:"id"`
	Title        string                   `json:"title"`
	Content      string                   `json:"content"`
	Excerpt      string                   `json:"excerpt"`
	Category     string                   `json:"category"`
	Tags         []string                 `json:"tags"`
	Image        string                   `json:"image"`
	Author       Author                   `json:"author"`
	Views        int                      `json:"views"`
	Likes        int                      `json:"likes"`
	IsLiked      bool                     `json:"isLiked"`
	CommentCount int                      `json:"commentCount"`
	Comments     []commentservice.Comment `json:"comments"`
	IsPublished  bool                     `json:"isPublished"`
	ReadTime     int                      `json:"readTime"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
	Version      int                      `json:"-"`
}

// Filters narrows and orders the public listing. Zero values mean "no
// filter": empty Category or "All" matches every category, empty Search
// skips full-text matching, empty Tags skips the tag overlap test, and a
// zero AuthorID matches every author.
type Filters struct {
	Category string
	Search   string
	Tags     []string
	AuthorID int
	Sort     string
	Page     int
	PageSize int
}

type CreateBlogInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt"`
	Category   string `json:"category"`
	Tags       string `json:"tags"`
	CoverImage string `json:"coverImage"`
}

// UpdateBlogInput is a partial update: nil fields keep their current value.
type UpdateBlogInput struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Excerpt     *string `json:"excerpt"`
	Category    *string `json:"category"`
	Tags        *string `json:"tags"`
	CoverImage  *string `json:"coverImage"`
	IsPublished *bool   `json:"isPublished"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m        *BlogModel
	comments *commentservice.CommentService
	media    mediaservice.Store
	logger   *slog.Logger
}
