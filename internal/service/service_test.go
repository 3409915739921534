package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/badgeworks/affiliates/internal/model"
	"github.com/badgeworks/affiliates/internal/queue"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	f, err := os.CreateTemp("", "affiliates-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp db: %v", err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := gorm.Open(sqlite.Open(f.Name()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.Account{},
		&model.FacebookUser{},
		&model.AccountLink{},
		&model.Banner{},
		&model.BannerLocale{},
		&model.BannerInstance{},
		&model.ClickStats{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// fakeQueue records enqueued tasks instead of touching Redis.
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

func (q *fakeQueue) all() []queue.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queue.Task(nil), q.tasks...)
}

// fakeMailer records sent mail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []fakeMail
}

type fakeMail struct {
	To      []string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, fakeMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) all() []fakeMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]fakeMail(nil), m.sent...)
}

func testCtx() context.Context { return context.Background() }
