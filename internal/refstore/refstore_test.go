package refstore

import (
	"testing"
	"time"

	"tunegrab/internal/core"
)

func TestStore_PutResolve(t *testing.T) {
	store := New(16, time.Minute)

	target := core.Target{Kind: core.TargetURL, Value: "https://example.com/song"}
	token := store.Put(target)

	if len(token) != tokenLength {
		t.Errorf("Token should be %d characters, got %d (%q)", tokenLength, len(token), token)
	}
	if store.Len() != 1 {
		t.Errorf("Store should hold 1 reference, got %d", store.Len())
	}

	resolved, ok := store.Resolve(token)
	if !ok {
		t.Fatal("Freshly minted token should resolve")
	}
	if resolved != target {
		t.Errorf("Resolved target %+v, want %+v", resolved, target)
	}
}

func TestStore_ConsumeOnResolve(t *testing.T) {
	store := New(16, time.Minute)
	token := store.Put(core.Target{Kind: core.TargetURL, Value: "u"})

	if _, ok := store.Resolve(token); !ok {
		t.Fatal("First resolution should succeed")
	}
	if _, ok := store.Resolve(token); ok {
		t.Error("Second resolution of the same token should fail")
	}
	if store.Len() != 0 {
		t.Errorf("Consumed reference should be gone, got len %d", store.Len())
	}
}

func TestStore_UnknownToken(t *testing.T) {
	store := New(16, time.Minute)

	if _, ok := store.Resolve("deadbeef"); ok {
		t.Error("A token that was never issued should not resolve")
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	store := New(16, 20*time.Millisecond)
	token := store.Put(core.Target{Kind: core.TargetURL, Value: "u"})

	time.Sleep(60 * time.Millisecond)

	if _, ok := store.Resolve(token); ok {
		t.Error("An expired token should not resolve")
	}
}

func TestStore_CapacityBound(t *testing.T) {
	store := New(4, time.Minute)

	tokens := make([]string, 8)
	for i := range tokens {
		tokens[i] = store.Put(core.Target{Kind: core.TargetURL, Value: "u"})
	}

	if store.Len() > 4 {
		t.Errorf("Store should never exceed its capacity, got %d", store.Len())
	}

	// The newest references survive eviction.
	for _, token := range tokens[4:] {
		if _, ok := store.Resolve(token); !ok {
			t.Errorf("Recent token %q should still resolve", token)
		}
	}
}

func TestStore_DistinctTokens(t *testing.T) {
	store := New(128, time.Minute)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := store.Put(core.Target{Kind: core.TargetURL, Value: "u"})
		if seen[token] {
			t.Fatalf("Token %q was minted twice", token)
		}
		seen[token] = true
	}
}
