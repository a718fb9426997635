// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()
	c := New[string](time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists || value != "value1" {
		t.Errorf("Get(key1) = %q, %v", value, exists)
	}

	if _, exists := c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[int](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("n", 1)
	c.SetWithTTL("short", 2, time.Second)

	now = now.Add(2 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("short-lived entry should have expired")
	}
	if v, ok := c.Get("n"); !ok || v != 1 {
		t.Errorf("Get(n) = %d, %v", v, ok)
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get("n"); ok {
		t.Error("entry should have expired after the default TTL")
	}
	if got := c.GetStats(); got.Evictions != 2 || got.Keys != 0 {
		t.Errorf("stats = %+v", got)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()
	c := New[string](time.Minute)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	c.Delete("key1")
	c.Delete("missing")
	if _, ok := c.Get("key1"); ok {
		t.Error("Expected key1 to be deleted")
	}

	c.Clear()
	for _, key := range []string{"key2", "key3"} {
		if _, ok := c.Get(key); ok {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
	if got := c.GetStats().Evictions; got != 3 {
		t.Errorf("Evictions = %d, want 3", got)
	}
}

func TestCacheHitRate(t *testing.T) {
	t.Parallel()
	c := New[int](time.Minute)

	if c.HitRate() != 0 {
		t.Errorf("empty hit rate = %v", c.HitRate())
	}
	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("a")
	c.Get("b")

	if got := c.HitRate(); got != 75.0 {
		t.Errorf("HitRate = %v, want 75", got)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	t.Parallel()
	c := New[int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", i%5)
			c.Set(key, i)
			c.Get(key)
			if i%10 == 0 {
				c.Clear()
			}
		}(i)
	}
	wg.Wait()

	if s := c.GetStats(); s.Hits+s.Misses != 50 {
		t.Errorf("lookups = %d, want 50", s.Hits+s.Misses)
	}
}
