package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := New()
	c.Set("content:internal", "site content", 1*time.Second)
	val, ok := c.Get("content:internal")
	if !ok || val != "site content" {
		t.Fatalf("expected site content, got %v, exists=%v", val, ok)
	}
}

func TestExpiration(t *testing.T) {
	c := New()
	c.Set("content:internal", "site content", 100*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	_, ok := c.Get("content:internal")
	if ok {
		t.Fatalf("expected expired key to return false")
	}
}

func TestDelete(t *testing.T) {
	c := New()
	c.Set("content:external", "site content", 1*time.Second)
	c.Delete("content:external")
	_, ok := c.Get("content:external")
	if ok {
		t.Fatalf("expected deleted key to return false")
	}
}

func TestInvalidate(t *testing.T) {
	c := New()
	c.Set("content:internal", "internal site", 1*time.Second)
	c.Set("content:external", "external site", 1*time.Second)
	c.Set("history:internal", "copy records", 1*time.Second)
	c.Invalidate("content:")
	_, ok1 := c.Get("content:internal")
	_, ok2 := c.Get("content:external")
	_, ok3 := c.Get("history:internal")
	if ok1 || ok2 {
		t.Fatalf("expected content keys to be invalidated")
	}
	if !ok3 {
		t.Fatalf("expected history:internal to still exist")
	}
}
