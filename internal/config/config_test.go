package config

import (
	"os"
	"testing"
	"time"
)

// unsetEnv 清除变量，测试结束后恢复原值
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "DB_DRIVER", "DB_MAX_CONNS", "CRAWL_INTERVAL", "CRAWL_SUBREDDIT_LIMIT", "CRAWL_POST_LIMIT", "CRAWL_USER_PASSWORD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("Expected 10 max conns, got %d", cfg.Database.MaxConns)
	}
	if cfg.Crawl.SubredditLimit != 40 || cfg.Crawl.PostLimit != 50 {
		t.Errorf("Unexpected crawl limits %d/%d", cfg.Crawl.SubredditLimit, cfg.Crawl.PostLimit)
	}
	if cfg.Crawl.UserPassword != "abc123" {
		t.Errorf("Expected default crawl password, got %s", cfg.Crawl.UserPassword)
	}
	if cfg.Crawl.Interval != 0 {
		t.Errorf("Expected scheduling disabled, got %s", cfg.Crawl.Interval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("CRAWL_INTERVAL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.MaxConns != 4 {
		t.Errorf("Overrides not applied: %+v", cfg.Database)
	}
	if cfg.Crawl.Interval != 30*time.Minute {
		t.Errorf("Expected 30m interval, got %s", cfg.Crawl.Interval)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for unsupported driver")
	}
}
