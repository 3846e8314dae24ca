package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	// AccessTokenTime is how long an issued bearer token stays valid.
	AccessTokenTime time.Duration = 7 * 24 * time.Hour

	// tokenCacheTime bounds how stale a cached token lookup may be.
	tokenCacheTime time.Duration = 60 * time.Second
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m *UserModel
	t *TokenModel
	c *common.Cache
}

type UserModel struct {
	db *sql.DB
}

type TokenModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	Role      Role      `json:"role"`
	Avatar    string    `json:"avatar"`
	Bio       string    `json:"bio"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"-"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte
}

type Token struct {
	Plain  string    `json:"token"`
	Hash   []byte    `json:"-"`
	UserID int       `json:"-"`
	Expiry time.Time `json:"expiry"`
}

// ProfilePost is the trimmed view of a post shown on a public profile.
type ProfilePost struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Category  string    `json:"category"`
	Views     int       `json:"views"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProfileStats struct {
	BlogCount  int `json:"blogCount"`
	TotalViews int `json:"totalViews"`
	TotalLikes int `json:"totalLikes"`
}

type Profile struct {
	User
	Posts []ProfilePost `json:"blogs"`
	Stats ProfileStats  `json:"stats"`
}
