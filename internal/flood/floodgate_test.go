package flood

import (
	"testing"
)

func TestFloodgate_AllowsUnderLimit(t *testing.T) {
	fg := New(5)
	defer fg.Stop()

	for i := 0; i < 5; i++ {
		if !fg.Allow(1, 100) {
			t.Errorf("Message %d should be allowed under the limit", i+1)
		}
	}
}

func TestFloodgate_BlocksOverLimit(t *testing.T) {
	fg := New(3)
	defer fg.Stop()

	for i := 0; i < 3; i++ {
		if !fg.Allow(1, 100) {
			t.Fatalf("Message %d should be allowed", i+1)
		}
	}

	if fg.Allow(1, 100) {
		t.Error("Message over the limit should be blocked")
	}
}

func TestFloodgate_UsersIndependent(t *testing.T) {
	fg := New(2)
	defer fg.Stop()

	fg.Allow(1, 100)
	fg.Allow(1, 100)
	if fg.Allow(1, 100) {
		t.Error("User 100 should be over the limit")
	}

	if !fg.Allow(1, 200) {
		t.Error("User 200 should not be affected by user 100's flood")
	}
}

func TestFloodgate_ChatsIndependent(t *testing.T) {
	fg := New(2)
	defer fg.Stop()

	fg.Allow(1, 100)
	fg.Allow(1, 100)
	if fg.Allow(1, 100) {
		t.Error("User should be over the limit in chat 1")
	}

	if !fg.Allow(2, 100) {
		t.Error("The same user should start fresh in a different chat")
	}
}

func TestFloodgate_Stats(t *testing.T) {
	fg := New(10)
	defer fg.Stop()

	fg.Allow(1, 100)
	fg.Allow(1, 200)
	fg.Allow(2, 100)

	stats := fg.GetStats()
	if stats.ActiveUsers != 3 {
		t.Errorf("Expected 3 active entries, got %d", stats.ActiveUsers)
	}
	if stats.LimitPerMinute != 10 {
		t.Errorf("Expected limit 10, got %d", stats.LimitPerMinute)
	}
	if stats.WindowSeconds != 60 {
		t.Errorf("Expected a 60 second window, got %d", stats.WindowSeconds)
	}
}
