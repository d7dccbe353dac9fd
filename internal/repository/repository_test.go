package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jimmy058910/replitballgame-sub001/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedDemo(t *testing.T, db *sql.DB) *DemoSeed {
	t.Helper()
	seed, err := NewSeedRepository(db, zerolog.Nop()).SeedDemo(context.Background())
	if err != nil {
		t.Fatalf("seeding demo data: %v", err)
	}
	return seed
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	return n
}
