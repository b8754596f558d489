package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage        = "send_message"
	ActionCreateConversation = "create_conversation"
	ActionAutocomplete       = "autocomplete"
	ActionAnalyze            = "ai_analyze"
	ActionHTTP               = "http"
)

// Policy is a sustained rate with a burst allowance.
type Policy struct {
	Every time.Duration
	Burst int
}

var defaultPolicies = map[string]Policy{
	// 10 messages per minute
	ActionSendMessage: {Every: 6 * time.Second, Burst: 10},
	// Reopening an existing thread counts too, so this is looser than sends.
	ActionCreateConversation: {Every: time.Minute, Burst: 20},
	ActionAutocomplete:       {Every: 500 * time.Millisecond, Burst: 10},
	// Image analysis is expensive, 6 per hour
	ActionAnalyze: {Every: 10 * time.Minute, Burst: 6},
	// General API traffic, 60 requests per minute
	ActionHTTP: {Every: time.Second, Burst: 60},
}

var fallbackPolicy = Policy{Every: 3 * time.Second, Burst: 20}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per user and action.
type RateLimiter struct {
	mu       sync.Mutex
	entries  map[string]*entry
	policies map[string]Policy
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	policies := make(map[string]Policy, len(defaultPolicies))
	for k, v := range defaultPolicies {
		policies[k] = v
	}
	return &RateLimiter{
		entries:  make(map[string]*entry),
		policies: policies,
		now:      time.Now,
	}
}

// SetPolicy overrides the policy for an action. Existing buckets keep the old one.
func (rl *RateLimiter) SetPolicy(action string, p Policy) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.policies[action] = p
}

// Allow consumes one token for the user action. When denied it also returns
// how long until the next token is available.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	now := rl.now()
	lim := rl.limiter(userID, action, now)

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, delay
}

func (rl *RateLimiter) limiter(userID, action string, now time.Time) *rate.Limiter {
	key := userID + ":" + action

	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[key]
	if !ok {
		p, found := rl.policies[action]
		if !found {
			p = fallbackPolicy
		}
		e = &entry{limiter: rate.NewLimiter(rate.Every(p.Every), p.Burst)}
		rl.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Cleanup removes buckets that have been idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, e := range rl.entries {
		if now.Sub(e.lastSeen) > maxIdle {
			delete(rl.entries, key)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine runs Cleanup every interval until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-stop:
				return
			}
		}
	}()
}
