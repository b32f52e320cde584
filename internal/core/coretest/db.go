// AngelaMos | 2026
// db.go

// Package coretest opens a migrated Postgres for integration tests. Tests
// that call OpenDB are skipped unless DATABASE_URL is set.
package coretest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/crm-backend/internal/config"
	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/user"
)

func OpenDB(t testing.TB) *core.Database {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:          url,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := core.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// CreateUser inserts a solo user with a unique username and returns it.
func CreateUser(t testing.TB, db *core.Database) *user.User {
	t.Helper()

	suffix := uuid.NewString()[:8]
	u := &user.User{
		ID:           uuid.NewString(),
		Username:     "it_" + suffix,
		Email:        "it_" + suffix + "@example.test",
		PasswordHash: "not-a-real-hash",
		FirstName:    "Integration",
		LastName:     "Test",
	}

	if err := user.NewRepository(db.DB).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
