package db

import (
	"errors"
	"path/filepath"
	"testing"

	"redditcrawl/internal/config"
	"redditcrawl/internal/models"

	"gorm.io/gorm"
)

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"crawl.db", "crawl.db?_foreign_keys=1"},
		{"file::memory:?cache=shared", "file::memory:?cache=shared&_foreign_keys=1"},
		{"crawl.db?_foreign_keys=1", "crawl.db?_foreign_keys=1"},
		{"crawl.db?_fk=true", "crawl.db?_fk=true"},
	}
	for _, tt := range tests {
		if got := withForeignKeys(tt.in); got != tt.want {
			t.Errorf("withForeignKeys(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenSQLiteFileEnforcesForeignKeys(t *testing.T) {
	gdb, err := Open(config.DatabaseConfig{
		Driver:   "sqlite",
		URL:      filepath.Join(t.TempDir(), "crawl.db"),
		MaxConns: 2,
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	user := models.User{Username: "gopher", Password: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	post := models.Post{SubredditID: 9999, UserID: user.ID, Title: "orphan", URL: "https://example.com"}
	err = gdb.Omit("Subreddit", "User").Create(&post).Error
	if !errors.Is(err, gorm.ErrForeignKeyViolated) {
		t.Errorf("Expected ErrForeignKeyViolated for missing subreddit, got %v", err)
	}
}
