package adminservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

const defaultPageSize = 10

// BlogSummary is the moderation view of a post: no content body, author
// contact attached, drafts included.
type BlogSummary struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Views       int       `json:"views"`
	Likes       int       `json:"likes"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	Author      Author    `json:"author"`
}

type Author struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// UserSummary is the moderation view of an account, with the titles of
// every post it owns. The password never appears here.
type UserSummary struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Blogs     []string  `json:"blogs"`
}

type Stats struct {
	TotalUsers    int           `json:"totalUsers"`
	TotalBlogs    int           `json:"totalBlogs"`
	TotalComments int           `json:"totalComments"`
	ActiveUsers   int           `json:"activeUsers"`
	RecentBlogs   []BlogSummary `json:"recentBlogs"`
	PopularBlogs  []BlogSummary `json:"popularBlogs"`
}

type AdminModel struct {
	db *sql.DB
}

type AdminService struct {
	m     *AdminModel
	blogs *blogservice.BlogService
	users *userservice.UserService
}
