package main

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/api/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "available", body["status"])

	info, ok := body["system_info"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "inkwell", info["service"])
	assert.Equal(t, "test", info["environment"])
}

func TestRegisterAndIdentify(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.post(t, "/api/auth/register", map[string]string{
		"name":     "alice",
		"email":    "alice@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["name"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")

	// The returned token resolves to the registered user.
	token := body["token"].(string)
	status, _, body = ts.get(t, "/api/auth/me", &token)
	assert.Equal(t, http.StatusOK, status)
	me := body["user"].(map[string]any)
	assert.Equal(t, user["id"], me["id"])
	assert.NotContains(t, me, "password")

	// Same email again.
	status, _, body = ts.post(t, "/api/auth/register", map[string]string{
		"name":     "alice2",
		"email":    "alice@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	errs := body["errors"].(map[string]any)
	assert.Equal(t, "a user with this email address already exists", errs["email"])
}

func TestLogin(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	registerTestUser(t, ts, "alice", "alice@example.com")

	testCases := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "valid credentials",
			email:          "alice@example.com",
			password:       "password123",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			email:          "alice@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Invalid email or password",
		},
		{
			name:           "unknown email",
			email:          "nobody@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Invalid email or password",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, _, body := ts.post(t, "/api/auth/login", map[string]string{
				"email":    tc.email,
				"password": tc.password,
			}, nil)
			assert.Equal(t, tc.expectedStatus, status)
			if tc.expectedMsg != "" {
				assert.Equal(t, tc.expectedMsg, body["message"])
			} else {
				assert.NotEmpty(t, body["token"])
			}
		})
	}
}

func TestInvalidToken(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	bogus := strings.Repeat("x", 26)
	status, headers, _ := ts.get(t, "/api/auth/me", &bogus)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Bearer", headers.Get("WWW-Authenticate"))

	// Anonymous access to a protected route.
	status, _, _ = ts.get(t, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUpdateProfile(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, token := registerTestUser(t, ts, "alice", "alice@example.com")

	status, _, body := ts.put(t, "/api/auth/profile", map[string]string{
		"bio": "writer of things",
	}, &token)
	assert.Equal(t, http.StatusOK, status)

	user := body["user"].(map[string]any)
	assert.Equal(t, "writer of things", user["bio"])
	assert.Equal(t, "alice", user["name"])
}

// Scenario: a 400 word post reads in two minutes.
func TestCreateBlogReadTime(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, token := registerTestUser(t, ts, "alice", "alice@example.com")

	status, _, body := ts.post(t, "/api/blogs", map[string]string{
		"title":    "Hello World",
		"content":  strings.TrimSpace(strings.Repeat("word ", 400)),
		"category": "Technology",
	}, &token)
	assert.Equal(t, http.StatusCreated, status)

	blog := body["blog"].(map[string]any)
	assert.Equal(t, float64(2), blog["readTime"])
	assert.Equal(t, true, blog["isPublished"])
}

// Scenario: a second user toggles a like on and off again.
func TestBlogLikeToggle(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, author := registerTestUser(t, ts, "alice", "alice@example.com")
	_, reader := registerTestUser(t, ts, "bob", "bob@example.com")

	_, _, body := ts.post(t, "/api/blogs", map[string]string{
		"title":    "Like Me",
		"content":  "Some content.",
		"category": "Technology",
	}, &author)
	blogID := int(body["blog"].(map[string]any)["id"].(float64))

	path := fmt.Sprintf("/api/blogs/%d/like", blogID)

	status, _, body := ts.put(t, path, nil, &reader)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["likes"])
	assert.Equal(t, true, body["isLiked"])

	status, _, body = ts.put(t, path, nil, &reader)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["likes"])
	assert.Equal(t, false, body["isLiked"])
}

// Scenario: the author replies to a reader's comment; replying does not mark
// the comment as edited.
func TestCommentAndReply(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, author := registerTestUser(t, ts, "alice", "alice@example.com")
	_, reader := registerTestUser(t, ts, "bob", "bob@example.com")

	_, _, body := ts.post(t, "/api/blogs", map[string]string{
		"title":    "Discuss",
		"content":  "Some content.",
		"category": "Technology",
	}, &author)
	blogID := int(body["blog"].(map[string]any)["id"].(float64))

	status, _, body := ts.post(t, "/api/comments", map[string]any{
		"blog":    blogID,
		"content": "Nice post",
	}, &reader)
	assert.Equal(t, http.StatusCreated, status)
	comment := body["comment"].(map[string]any)
	commentID := int(comment["id"].(float64))
	assert.Equal(t, "bob", comment["author"].(map[string]any)["name"])

	status, _, body = ts.post(t, fmt.Sprintf("/api/comments/%d/reply", commentID), map[string]string{
		"content": "Thanks!",
	}, &author)
	assert.Equal(t, http.StatusCreated, status)

	comment = body["comment"].(map[string]any)
	replies := comment["replies"].([]any)
	assert.Len(t, replies, 1)
	reply := replies[0].(map[string]any)
	assert.Equal(t, "Thanks!", reply["content"])
	assert.Equal(t, "alice", reply["author"].(map[string]any)["name"])
	assert.Equal(t, false, comment["isEdited"])
}

// Non-owner, non-admin mutations fail and leave the resource intact.
func TestMutationRequiresOwnerOrAdmin(t *testing.T) {
	app, _, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, author := registerTestUser(t, ts, "alice", "alice@example.com")
	_, intruder := registerTestUser(t, ts, "mallory", "mallory@example.com")
	adminID, admin := registerTestUser(t, ts, "root", "root@example.com")
	promoteToAdmin(t, db, adminID)

	_, _, body := ts.post(t, "/api/blogs", map[string]string{
		"title":    "Untouchable",
		"content":  "Some content.",
		"category": "Technology",
	}, &author)
	blogID := int(body["blog"].(map[string]any)["id"].(float64))
	blogPath := fmt.Sprintf("/api/blogs/%d", blogID)

	status, _, body := ts.put(t, blogPath, map[string]string{"title": "Defaced"}, &intruder)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Not authorized", body["message"])

	status, _, _ = ts.delete(t, blogPath, &intruder)
	assert.Equal(t, http.StatusForbidden, status)

	// Still intact.
	status, _, body = ts.get(t, blogPath, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Untouchable", body["blog"].(map[string]any)["title"])

	// Admin may edit anyone's post.
	status, _, body = ts.put(t, blogPath, map[string]string{"title": "Moderated"}, &admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Moderated", body["blog"].(map[string]any)["title"])
}

// 15 published posts, page 2 of size 10, leaves 5.
func TestListBlogsPagination(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, token := registerTestUser(t, ts, "alice", "alice@example.com")

	for i := 1; i <= 15; i++ {
		status, _, _ := ts.post(t, "/api/blogs", map[string]string{
			"title":    fmt.Sprintf("Post %d", i),
			"content":  "Some content.",
			"category": "Technology",
		}, &token)
		assert.Equal(t, http.StatusCreated, status)
	}

	status, _, body := ts.get(t, "/api/blogs?page=2&limit=10", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["blogs"].([]any), 5)
	assert.Equal(t, float64(15), body["total"])
	assert.Equal(t, float64(2), body["totalPages"])
	assert.Equal(t, float64(2), body["currentPage"])
}

func TestMyBlogs(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, alice := registerTestUser(t, ts, "alice", "alice@example.com")
	_, bob := registerTestUser(t, ts, "bob", "bob@example.com")

	_, _, _ = ts.post(t, "/api/blogs", map[string]string{
		"title":    "Mine",
		"content":  "Some content.",
		"category": "Technology",
	}, &alice)
	_, _, _ = ts.post(t, "/api/blogs", map[string]string{
		"title":    "Theirs",
		"content":  "Some content.",
		"category": "Travel",
	}, &bob)

	status, _, body := ts.get(t, "/api/blogs/my-blogs", &alice)
	assert.Equal(t, http.StatusOK, status)
	blogs := body["blogs"].([]any)
	assert.Len(t, blogs, 1)
	assert.Equal(t, "Mine", blogs[0].(map[string]any)["title"])

	status, _, _ = ts.get(t, "/api/blogs/my-blogs", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestIncrementViewsEndpoint(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, token := registerTestUser(t, ts, "alice", "alice@example.com")

	_, _, body := ts.post(t, "/api/blogs", map[string]string{
		"title":    "Counter",
		"content":  "Some content.",
		"category": "Technology",
	}, &token)
	blogID := int(body["blog"].(map[string]any)["id"].(float64))

	status, _, body := ts.put(t, fmt.Sprintf("/api/blogs/%d/view", blogID), nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["views"])

	status, _, body = ts.put(t, "/api/blogs/999999/view", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "resource not found", body["message"])
}

func TestPublicProfile(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	aliceID, token := registerTestUser(t, ts, "alice", "alice@example.com")

	_, _, _ = ts.post(t, "/api/blogs", map[string]string{
		"title":    "Published",
		"content":  "Some content.",
		"category": "Technology",
	}, &token)

	status, _, body := ts.get(t, fmt.Sprintf("/api/users/%d", aliceID), nil)
	assert.Equal(t, http.StatusOK, status)

	profile := body["user"].(map[string]any)
	assert.Equal(t, "alice", profile["name"])
	assert.NotContains(t, profile, "password")
	assert.Len(t, profile["blogs"].([]any), 1)

	stats := profile["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["blogCount"])
}

// Scenario: deactivation blocks login and kills the live session; a second
// toggle restores access.
func TestToggleUserStatusEndToEnd(t *testing.T) {
	app, _, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	bobID, bob := registerTestUser(t, ts, "bob", "bob@example.com")
	adminID, admin := registerTestUser(t, ts, "root", "root@example.com")
	promoteToAdmin(t, db, adminID)

	togglePath := fmt.Sprintf("/api/admin/users/%d/toggle-status", bobID)

	status, _, body := ts.put(t, togglePath, nil, &admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User deactivated successfully", body["message"])
	assert.Equal(t, false, body["user"].(map[string]any)["isActive"])

	// Correct password, deactivated account.
	status, _, body = ts.post(t, "/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Account is deactivated", body["message"])

	// The pre-deactivation token no longer works either.
	status, _, _ = ts.get(t, "/api/auth/me", &bob)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _, body = ts.put(t, togglePath, nil, &admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User activated successfully", body["message"])

	status, _, _ = ts.post(t, "/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	app, _, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, user := registerTestUser(t, ts, "bob", "bob@example.com")
	adminID, admin := registerTestUser(t, ts, "root", "root@example.com")
	promoteToAdmin(t, db, adminID)

	status, _, body := ts.get(t, "/api/admin/stats", &user)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Not authorized", body["message"])

	status, _, _ = ts.get(t, "/api/admin/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _, body = ts.get(t, "/api/admin/stats", &admin)
	assert.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["totalUsers"])
}

func TestAdminForcedDelete(t *testing.T) {
	app, _, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, author := registerTestUser(t, ts, "alice", "alice@example.com")
	adminID, admin := registerTestUser(t, ts, "root", "root@example.com")
	promoteToAdmin(t, db, adminID)

	_, _, body := ts.post(t, "/api/blogs", map[string]string{
		"title":    "Spam",
		"content":  "Some content.",
		"category": "Other",
	}, &author)
	blogID := int(body["blog"].(map[string]any)["id"].(float64))

	status, _, _ := ts.delete(t, fmt.Sprintf("/api/admin/blogs/%d", blogID), &admin)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = ts.get(t, fmt.Sprintf("/api/blogs/%d", blogID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestValidationErrorEnvelope(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, token := registerTestUser(t, ts, "alice", "alice@example.com")

	status, _, body := ts.post(t, "/api/blogs", map[string]string{
		"title":    "",
		"content":  "Some content.",
		"category": "Nonsense",
	}, &token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation failed", body["message"])

	errs := body["errors"].(map[string]any)
	assert.Equal(t, "must be provided", errs["title"])
	assert.Equal(t, "must be a valid category", errs["category"])
}
