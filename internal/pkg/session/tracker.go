package session

import (
	"log/slog"
	"sync"
	"time"
)

// Tracker expires idle sessions. Each authenticated request calls Touch,
// which arms (or re-arms) a timer scoped to that user. The timer is
// cancelled on logout instead of being left to fire against a session that
// no longer exists.
type Tracker struct {
	idleTimeout time.Duration
	onExpire    func(userID string)
	timers      map[string]*time.Timer
	mu          sync.Mutex
	stopped     bool
}

func NewTracker(idleTimeout time.Duration, onExpire func(userID string)) *Tracker {
	return &Tracker{
		idleTimeout: idleTimeout,
		onExpire:    onExpire,
		timers:      make(map[string]*time.Timer),
	}
}

// Touch marks activity for the user, resetting their idle timer.
func (t *Tracker) Touch(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}

	if timer, ok := t.timers[userID]; ok {
		timer.Reset(t.idleTimeout)
		return
	}

	t.timers[userID] = time.AfterFunc(t.idleTimeout, func() {
		t.expire(userID)
	})
}

// Remove cancels the user's idle timer. Called on logout.
func (t *Tracker) Remove(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[userID]; ok {
		timer.Stop()
		delete(t.timers, userID)
	}
}

// Active reports whether the user currently has an armed idle timer.
func (t *Tracker) Active(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.timers[userID]
	return ok
}

// Stop cancels every timer. Called on shutdown.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	for userID, timer := range t.timers {
		timer.Stop()
		delete(t.timers, userID)
	}
}

func (t *Tracker) expire(userID string) {
	t.mu.Lock()
	// The timer may have been stopped between firing and acquiring the
	// lock. Only expire sessions still tracked.
	if _, ok := t.timers[userID]; !ok {
		t.mu.Unlock()
		return
	}
	delete(t.timers, userID)
	t.mu.Unlock()

	slog.Info("Session expired due to inactivity", "user_id", userID)
	if t.onExpire != nil {
		t.onExpire(userID)
	}
}
