package services

import (
	"fmt"
	"testing"

	"spacedodge/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a migrated in-memory database. One connection keeps
// every query on the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Score{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func scoresOf(records []models.Score) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Score
	}
	return out
}

// seedUsers creates users with ids 1..n so scores have an owner.
func seedUsers(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		user := models.User{ID: uint(i), Username: fmt.Sprintf("player%d", i), PasswordHash: "x"}
		if err := db.Create(&user).Error; err != nil {
			t.Fatalf("Failed to seed user %d: %v", i, err)
		}
	}
}

// newScoreService returns a service over a fresh database with three users.
func newScoreService(t *testing.T, cache *LeaderboardCache) (*ScoreService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	seedUsers(t, db, 3)
	return NewScoreService(db, cache), db
}
