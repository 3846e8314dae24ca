package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/inkwell/internal/adminservice"
	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/commentservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/mediaservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

func newTestApplication(t *testing.T) (*application, *mediaservice.MockStore, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg, err := loadConfig("../.test.env")
	assert.NoError(t, err)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	media := mediaservice.NewMockStore()

	userService := userservice.NewUserService(db, cache)
	commentService := commentservice.NewCommentService(db)
	blogService := blogservice.NewBlogService(db, commentService, media, logger)

	app := &application{
		config:         cfg,
		logger:         logger,
		userService:    userService,
		blogService:    blogService,
		commentService: commentService,
		adminService:   adminservice.NewAdminService(db, blogService, userService),
	}

	return app, media, db
}

func (ts *testServer) do(t *testing.T, method, path string, payload any, token *string) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, nil, token)
}

func (ts *testServer) post(t *testing.T, path string, payload any, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, payload, token)
}

func (ts *testServer) put(t *testing.T, path string, payload any, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, payload, token)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, nil, token)
}

// registerTestUser registers through the API and returns the user id and
// bearer token.
func registerTestUser(t *testing.T, ts *testServer, name, email string) (int, string) {
	status, _, body := ts.post(t, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	user := body["user"].(map[string]any)
	return int(user["id"].(float64)), body["token"].(string)
}

// promoteToAdmin flips a user's role directly; there is no API for it.
func promoteToAdmin(t *testing.T, db *sql.DB, userID int) {
	_, err := db.Exec("UPDATE users SET role = 'admin' WHERE id = $1", userID)
	assert.NoError(t, err)
}
