package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterBurstPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	for i := 0; i < 2; i++ {
		if !rl.get("10.0.0.1").Allow() {
			t.Fatalf("request %d within burst denied", i+1)
		}
	}
	if rl.get("10.0.0.1").Allow() {
		t.Fatal("request over burst allowed")
	}

	// other clients are unaffected
	if !rl.get("10.0.0.2").Allow() {
		t.Fatal("fresh client denied")
	}
}

func TestRateLimiterSweepsStaleClients(t *testing.T) {
	rl := NewRateLimiter(1, 5)
	rl.get("10.0.0.1")

	rl.mu.Lock()
	rl.clients["10.0.0.1"].seen = time.Now().Add(-5 * time.Minute)
	rl.lastSweep = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	// next lookup runs the sweep inline
	rl.get("10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["10.0.0.1"]; ok {
		t.Fatal("stale client survived the sweep")
	}
	if _, ok := rl.clients["10.0.0.2"]; !ok {
		t.Fatal("active client swept")
	}
}
