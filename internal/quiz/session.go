package quiz

import "time"

// SessionRecord summarizes one finished session for the history log.
type SessionRecord struct {
	SessionID     string
	ModuleID      string
	ModuleTitle   string
	Correct       int
	Skipped       int
	Total         int
	LongestStreak int
	Completed     bool
	FinishedAt    time.Time
}
