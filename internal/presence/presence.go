// Package presence derives online status from activity recency. There is no
// stored online flag; every read recomputes it from last_seen.
package presence

import (
	"database/sql"
	"time"
)

// DefaultWindow is how recently a user must have been seen to count as online.
const DefaultWindow = 5 * time.Minute

// Tracker answers online checks for a fixed window.
type Tracker struct {
	window time.Duration
	now    func() time.Time
}

// New builds a Tracker. A non-positive window falls back to DefaultWindow.
func New(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{window: window, now: time.Now}
}

// Online reports whether last_seen is within the window. A user who has
// never been seen is offline.
func (t *Tracker) Online(lastSeen sql.NullTime) bool {
	if !lastSeen.Valid {
		return false
	}
	return t.now().Sub(lastSeen.Time) < t.window
}
