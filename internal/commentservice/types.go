package commentservice

import (
	"database/sql"
	"time"
)

// Author is the trimmed user view attached to comments and replies.
type Author struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Reply is embedded in its parent comment: it has no independent identity
// through the API, no likes, and cannot be edited or nested further.
type Reply struct {
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        int       `json:"id"`
	BlogID    int       `json:"blog"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	Likes     int       `json:"likes"`
	IsEdited  bool      `json:"isEdited"`
	Replies   []Reply   `json:"replies"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m *CommentModel
}
