package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupFlowTestApp builds the full route stack against an in-memory sqlite
// database. No Redis: caching and rate limiting degrade to no-ops in tests.
func setupFlowTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{Env: "test", Port: "0"}
	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app
}

func jsonReq(t *testing.T, method, path, token string, payload interface{}) *http.Request {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	return req
}

func registerUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	req := jsonReq(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": "TestPass123!",
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload["token"], 40)
	return payload["token"]
}

func createPost(t *testing.T, app *fiber.App, token, title, content string) models.BlogPost {
	t.Helper()
	req := jsonReq(t, http.MethodPost, "/api/create", token, map[string]string{
		"title":   title,
		"content": content,
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.BlogPost
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	return post
}

func listPosts(t *testing.T, app *fiber.App, token string) []models.BlogPost {
	t.Helper()
	req := jsonReq(t, http.MethodGet, "/api/blogs", token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.BlogPost
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	return posts
}

func TestRegisterLoginFlow(t *testing.T) {
	app := setupFlowTestApp(t)

	token := registerUser(t, app, "alice")

	// Second registration with the same username fails as a validation error
	dupReq := jsonReq(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice",
		"password": "AnotherPass123!",
	})
	dupResp, err := app.Test(dupReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, dupResp.StatusCode)
	_ = dupResp.Body.Close()

	// Login returns the same token as registration (get-or-create)
	loginReq := jsonReq(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice",
		"password": "TestPass123!",
	})
	loginResp, err := app.Test(loginReq, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var loginPayload map[string]string
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&loginPayload))
	_ = loginResp.Body.Close()
	assert.Equal(t, token, loginPayload["token"])
}

func TestPostLifecycleFlow(t *testing.T) {
	app := setupFlowTestApp(t)

	aliceToken := registerUser(t, app, "alice")
	bobToken := registerUser(t, app, "bob")

	alicePost := createPost(t, app, aliceToken, "Alice writes", "Her first post.")
	createPost(t, app, bobToken, "Bob writes", "His first post.")

	// Listing is scoped to the caller
	alicePosts := listPosts(t, app, aliceToken)
	require.Len(t, alicePosts, 1)
	assert.Equal(t, "Alice writes", alicePosts[0].Title)

	bobPosts := listPosts(t, app, bobToken)
	require.Len(t, bobPosts, 1)
	assert.Equal(t, "Bob writes", bobPosts[0].Title)

	// Bob cannot edit or delete Alice's post; both look like a missing post
	editPath := fmt.Sprintf("/api/blogs/%d/edit", alicePost.ID)
	editReq := jsonReq(t, http.MethodPut, editPath, bobToken, map[string]string{
		"title":   "Hijacked",
		"content": "Should never land.",
	})
	editResp, err := app.Test(editReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, editResp.StatusCode)
	_ = editResp.Body.Close()

	delPath := fmt.Sprintf("/api/blogs/%d/delete", alicePost.ID)
	delReq := jsonReq(t, http.MethodDelete, delPath, bobToken, nil)
	delResp, err := app.Test(delReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, delResp.StatusCode)
	_ = delResp.Body.Close()

	// Alice patches just the title
	patchReq := jsonReq(t, http.MethodPatch, editPath, aliceToken, map[string]string{
		"title": "Alice rewrites",
	})
	patchResp, err := app.Test(patchReq, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, patchResp.StatusCode)

	var patched models.BlogPost
	require.NoError(t, json.NewDecoder(patchResp.Body).Decode(&patched))
	_ = patchResp.Body.Close()
	assert.Equal(t, "Alice rewrites", patched.Title)
	assert.Equal(t, "Her first post.", patched.Content)

	// Alice deletes her own post
	ownDelReq := jsonReq(t, http.MethodDelete, delPath, aliceToken, nil)
	ownDelResp, err := app.Test(ownDelReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, ownDelResp.StatusCode)
	_ = ownDelResp.Body.Close()

	assert.Empty(t, listPosts(t, app, aliceToken))
}

func TestLikeToggleFlow(t *testing.T) {
	app := setupFlowTestApp(t)

	aliceToken := registerUser(t, app, "alice")
	bobToken := registerUser(t, app, "bob")
	post := createPost(t, app, aliceToken, "Likeable", "Please like this.")

	likePath := fmt.Sprintf("/api/blogs/%d/like", post.ID)

	// Bob can like Alice's post even though he cannot edit it
	for _, expected := range []string{"post liked", "post unliked", "post liked"} {
		req := jsonReq(t, http.MethodPost, likePath, bobToken, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		_ = resp.Body.Close()
		assert.Equal(t, expected, payload["status"])
	}

	// The like count shows up on the author's listing
	alicePosts := listPosts(t, app, aliceToken)
	require.Len(t, alicePosts, 1)
	assert.Equal(t, 1, alicePosts[0].LikesCount)
	assert.False(t, alicePosts[0].Liked)

	// Liking a nonexistent post is a 404, not a silent success
	missingReq := jsonReq(t, http.MethodPost, "/api/blogs/9999/like", bobToken, nil)
	missingResp, err := app.Test(missingReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
	_ = missingResp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	app := setupFlowTestApp(t)

	token := registerUser(t, app, "alice")

	logoutReq := jsonReq(t, http.MethodPost, "/api/logout", token, nil)
	logoutResp, err := app.Test(logoutReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, logoutResp.StatusCode)
	_ = logoutResp.Body.Close()

	// The deleted token never authenticates again
	staleReq := jsonReq(t, http.MethodGet, "/api/blogs", token, nil)
	staleResp, err := app.Test(staleReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, staleResp.StatusCode)
	_ = staleResp.Body.Close()

	// Logging back in mints a fresh token that works
	loginReq := jsonReq(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice",
		"password": "TestPass123!",
	})
	loginResp, err := app.Test(loginReq, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var loginPayload map[string]string
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&loginPayload))
	_ = loginResp.Body.Close()
	assert.NotEqual(t, token, loginPayload["token"])

	assert.Empty(t, listPosts(t, app, loginPayload["token"]))
}
