package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"housegig/internal/config"
	"housegig/internal/database"
	"housegig/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testServer wires a full server against in-memory SQLite and miniredis so
// handler tests exercise the real routing, auth, and service stack.
type testServer struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithConfig(t, nil)
}

func newTestServerWithConfig(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	cfg := &config.Config{
		JWTSecret:   "test-secret-key-12345678901234567890123456789012",
		Env:         "test",
		AIRateLimit: 30,
	}
	if mutate != nil {
		mutate(cfg)
	}

	srv, err := NewServerWithDeps(cfg, db, redisClient)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)

	return &testServer{srv: srv, app: app, db: db}
}

var handlerUserSeq int

// signupUser creates a user directly and returns it with a bearer token.
func (ts *testServer) signupUser(t *testing.T) (*models.User, string) {
	t.Helper()
	handlerUserSeq++
	user := &models.User{
		Username: fmt.Sprintf("apiuser%d", handlerUserSeq),
		Email:    fmt.Sprintf("apiuser%d@example.com", handlerUserSeq),
		Password: "not-a-real-hash",
	}
	require.NoError(t, ts.db.Create(user).Error)

	token, err := ts.srv.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

func (ts *testServer) createListing(t *testing.T, ownerID uint) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		Title:        "Harborfront loft",
		Description:  "Open plan with exposed brick",
		Region:       "Dockside",
		PropertyType: "loft",
		OwnerID:      ownerID,
	}
	require.NoError(t, ts.db.Create(listing).Error)
	return listing
}

// request performs an HTTP request against the test app. Body may be nil.
func (ts *testServer) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func listingPath(id uint) string {
	return fmt.Sprintf("/api/listings/%d", id)
}

// decodeBody decodes a JSON response body into out and closes it.
func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
