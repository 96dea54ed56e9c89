package quiz

import "github.com/abhisek/mcqquiz/internal/engine"

// snapshotMsg carries a state published by the engine.
type snapshotMsg struct {
	State engine.State
}

// closeDoneMsg is sent when the closing overlay has been shown long enough.
type closeDoneMsg struct{}
