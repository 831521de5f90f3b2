package assets

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestCache(t *testing.T) {
	c, err := OpenCache(":memory:", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get("d", "r1", "i"); ok || err != nil {
		t.Fatalf("Get() on empty cache = %v, %v", ok, err)
	}
	if err := c.Put("d", "r1", "i", []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	data, ok, err := c.Get("d", "r1", "i")
	if err != nil || !ok || len(data) != 3 {
		t.Fatalf("Get() = %v, %v, %v", data, ok, err)
	}
	if _, ok, _ := c.Get("d", "r2", "i"); ok {
		t.Error("entry of other revision returned")
	}

	if err := c.Put("d", "r2", "i", []byte{4}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get("d", "r1", "i"); ok {
		t.Error("old revision entry must be replaced")
	}
	if err := c.Purge("d", "r3"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get("d", "r2", "i"); ok {
		t.Error("purge left stale entry")
	}

	// empty revision disables caching
	if err := c.Put("d", "", "x", []byte{1}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get("d", "", "x"); ok {
		t.Error("entry without revision cached")
	}
}

func TestCache_Nil(t *testing.T) {
	var c *Cache
	if _, ok, err := c.Get("d", "r", "i"); ok || err != nil {
		t.Error("nil cache Get")
	}
	if err := c.Put("d", "r", "i", nil); err != nil {
		t.Error("nil cache Put")
	}
	if err := c.Close(); err != nil {
		t.Error("nil cache Close")
	}
}
