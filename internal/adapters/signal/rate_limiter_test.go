package signal

import (
	"testing"

	"github.com/dkeye/Assist/internal/app/orch"
)

func TestConnRateLimiterDisabled(t *testing.T) {
	rl := NewConnRateLimiter(0, 0)
	for i := 0; i < 1000; i++ {
		if !rl.Allow("a") {
			t.Fatal("disabled limiter rejected a message")
		}
	}
	rl.Forget("a")
}

func TestConnRateLimiterPerConnection(t *testing.T) {
	rl := NewConnRateLimiter(1, 2)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("burst should be allowed")
	}
	if rl.Allow("a") {
		t.Fatal("third message within the window should be rejected")
	}
	if !rl.Allow("b") {
		t.Fatal("limit must be per connection")
	}

	rl.Forget("a")
	if !rl.Allow("a") {
		t.Fatal("forgotten connection should start with a fresh bucket")
	}
}

func TestRateLimitedMessagesAreDropped(t *testing.T) {
	ctl := NewSignalWSController(orch.New(nil), Options{RateLimit: 1, RateBurst: 1})
	b := attach(t, ctl, "B")
	attach(t, ctl, "A")
	ctl.onMessage("B", []byte(`{"type":"register","sessionId":"room1"}`))

	for i := 0; i < 3; i++ {
		ctl.onMessage("A", []byte(`{"type":"offer","sessionId":"room1","offer":{"sdp":"x"}}`))
	}
	if b.Len() != 1 {
		t.Fatalf("B got %d frames, want 1 under a burst of 1", b.Len())
	}
}
