package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/badgeworks/affiliates/internal/config"
	"github.com/badgeworks/affiliates/internal/model"
	"github.com/badgeworks/affiliates/internal/queue"
	"github.com/badgeworks/affiliates/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "handler_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.FacebookUser{},
		&model.Account{},
		&model.AccountLink{},
		&model.Banner{},
		&model.BannerLocale{},
		&model.BannerInstance{},
		&model.ClickStats{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:               "test",
		SiteURL:              "http://affiliates.test",
		FacebookAppSecret:    "app-secret",
		FacebookAppURL:       "https://apps.facebook.test/affiliates",
		DownloadURL:          "https://download.test/firefox",
		LinkActivationWindow: 48 * time.Hour,
		LinkRateLimit:        30 * time.Second,
		DefaultLocale:        "en-us",
	}
}

// fakeAuth stands in for the session middleware on authenticated routes.
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.UserIDKey, userID)
		c.Next()
	}
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []queue.Task
}

func (q *fakeQueue) Enqueue(_ context.Context, task queue.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent int
}

func (m *fakeMailer) Send(to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
