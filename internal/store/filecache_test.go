package store

import (
	"fmt"
	"testing"
)

func TestFileIDCache_Basic(t *testing.T) {
	cache := NewFileIDCache(100, 0.001)

	if _, ok := cache.Get("audio:https://example.com/1"); ok {
		t.Error("Empty cache should not return any file ID")
	}
	if cache.Len() != 0 {
		t.Errorf("Empty cache length should be 0, got %d", cache.Len())
	}

	cache.Add("audio:https://example.com/1", "file-id-1")

	fileID, ok := cache.Get("audio:https://example.com/1")
	if !ok {
		t.Fatal("Cache should return the stored file ID")
	}
	if fileID != "file-id-1" {
		t.Errorf("Expected file-id-1, got %s", fileID)
	}

	// Overwriting a key keeps the latest value.
	cache.Add("audio:https://example.com/1", "file-id-2")
	if fileID, _ := cache.Get("audio:https://example.com/1"); fileID != "file-id-2" {
		t.Errorf("Expected the latest file ID, got %s", fileID)
	}
	if cache.Len() != 1 {
		t.Errorf("Overwriting should not grow the cache, got %d", cache.Len())
	}
}

func TestFileIDCache_Eviction(t *testing.T) {
	cache := NewFileIDCache(10, 0.001)

	for i := 0; i < 30; i++ {
		cache.Add(fmt.Sprintf("audio:https://example.com/%d", i), fmt.Sprintf("id-%d", i))
	}

	if cache.Len() > 10 {
		t.Errorf("Cache should never exceed its capacity, got %d", cache.Len())
	}

	// The most recent entries survive.
	if _, ok := cache.Get("audio:https://example.com/29"); !ok {
		t.Error("The newest entry should still be cached")
	}
	// Evicted keys stay in the Bloom filter but must still miss.
	if _, ok := cache.Get("audio:https://example.com/0"); ok {
		t.Error("The oldest entry should have been evicted")
	}
}

func BenchmarkFileIDCache_Get(b *testing.B) {
	cache := NewFileIDCache(10000, 0.001)
	for i := 0; i < 10000; i++ {
		cache.Add(fmt.Sprintf("audio:https://example.com/%d", i), fmt.Sprintf("id-%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(fmt.Sprintf("audio:https://example.com/%d", i%20000))
	}
}
