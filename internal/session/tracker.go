package session

import "sync"

// Tracker records which usernames currently hold a live login. It is
// advisory in-process state: it gates concurrent logins and deletion of
// logged-in accounts, but does not invalidate already-issued tokens, and it
// is lost on restart. Sessions have no expiry of their own, so one can
// outlive its token.
type Tracker struct {
	mu       sync.RWMutex
	loggedIn map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{loggedIn: map[string]struct{}{}}
}

func (t *Tracker) MarkLoggedIn(username string) {
	t.mu.Lock()
	t.loggedIn[username] = struct{}{}
	t.mu.Unlock()
}

func (t *Tracker) MarkLoggedOut(username string) {
	t.mu.Lock()
	delete(t.loggedIn, username)
	t.mu.Unlock()
}

func (t *Tracker) IsLoggedIn(username string) bool {
	t.mu.RLock()
	_, ok := t.loggedIn[username]
	t.mu.RUnlock()
	return ok
}
