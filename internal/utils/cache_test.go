package utils

import (
	"testing"
	"time"
)

func TestTTLCacheExpires(t *testing.T) {
	c, err := NewTTLCache[int](2)
	if err != nil {
		t.Fatalf("NewTTLCache failed: %v", err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1, time.Minute)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Expected cached 1, got %d (ok=%v)", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestTTLCacheEvictsAndDeletes(t *testing.T) {
	c, err := NewTTLCache[string](2)
	if err != nil {
		t.Fatalf("NewTTLCache failed: %v", err)
	}
	c.Set("a", "x", time.Hour)
	c.Set("b", "y", time.Hour)
	c.Set("c", "z", time.Hour)

	if _, ok := c.Get("a"); ok {
		t.Error("Expected least recently used entry to be evicted")
	}

	c.Delete("b")
	if _, ok := c.Get("b"); ok {
		t.Error("Expected deleted entry to be gone")
	}
	if v, ok := c.Get("c"); !ok || v != "z" {
		t.Errorf("Expected c=z, got %q (ok=%v)", v, ok)
	}
}
