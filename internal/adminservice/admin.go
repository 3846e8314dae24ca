package adminservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

const dashboardLimit = 5

func NewAdminService(db *sql.DB, blogs *blogservice.BlogService, users *userservice.UserService) *AdminService {
	return &AdminService{
		m:     newAdminModel(db),
		blogs: blogs,
		users: users,
	}
}

// Stats builds the moderation dashboard: entity counts plus the five newest
// and five most viewed posts.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats

	if err := s.m.counts(ctx, &stats); err != nil {
		return nil, err
	}

	recent, err := s.m.recentBlogs(ctx, dashboardLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentBlogs = recent

	popular, err := s.m.popularBlogs(ctx, dashboardLimit)
	if err != nil {
		return nil, err
	}
	stats.PopularBlogs = popular

	return &stats, nil
}

func (s *AdminService) ListBlogs(ctx context.Context, search string, page, pageSize int) ([]BlogSummary, int, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.m.listBlogs(ctx, search, page, pageSize)
}

func (s *AdminService) ListUsers(ctx context.Context, search string, page, pageSize int) ([]UserSummary, int, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.m.listUsers(ctx, search, page, pageSize)
}

// DeleteBlog is the forced-delete entry point: the same cascade as an
// owner delete, with no ownership check.
func (s *AdminService) DeleteBlog(ctx context.Context, id int) error {
	return s.blogs.Delete(ctx, id)
}

// ToggleUserStatus flips an account's active flag and revokes its sessions
// on deactivation.
func (s *AdminService) ToggleUserStatus(ctx context.Context, id int) (*userservice.User, error) {
	return s.users.ToggleStatus(ctx, id)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
