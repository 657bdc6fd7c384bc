package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"memoir/internal/config"
	"memoir/internal/models"
	"memoir/internal/repository"
	"memoir/internal/secrets"
	"memoir/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Foreign keys must be on for the account-deletion cascade to run.
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Achievement{},
		&models.Goal{},
		&models.Expense{},
		&models.Note{},
		&models.ConfidentialDetail{},
	))
	return db
}

// newTestServerOn builds a Server over an existing database. appSecret feeds
// the cipher, so two servers with different secrets model a key change.
func newTestServerOn(t *testing.T, db *gorm.DB, rdb *redis.Client, appSecret string) (*Server, *fiber.App) {
	t.Helper()

	cfg := &config.Config{
		Port:      "8460",
		JWTSecret: "test_secret",
		AppSecret: appSecret,
		Env:       "test",
	}
	cipher, err := secrets.NewCipher("", cfg.AppSecret)
	require.NoError(t, err)

	s := &Server{
		config:        cfg,
		db:            db,
		redis:         rdb,
		sessions:      session.NewManager(cfg.JWTSecret, rdb),
		cipher:        cipher,
		users:         repository.NewUserRepository(db),
		achievements:  repository.NewRecords[models.Achievement](db, "Achievement"),
		goals:         repository.NewRecords[models.Goal](db, "Goal"),
		expenses:      repository.NewRecords[models.Expense](db, "Expense"),
		notes:         repository.NewRecords[models.Note](db, "Note"),
		confidentials: repository.NewRecords[models.ConfidentialDetail](db, "Confidential detail"),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	return newTestServerOn(t, newTestDB(t), nil, "test-app-secret")
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

// doJSON performs a request against the test app. token may be empty for
// unauthenticated requests.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerUser creates an account through the API and returns its session token.
func registerUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}
