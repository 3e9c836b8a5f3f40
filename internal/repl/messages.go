package repl

import "time"

// Entry is one line of the transcript
type Entry struct {
	Input    string
	Mode     string
	Output   string
	Caret    string
	Code     string
	Failed   bool
	Note     bool
	Duration time.Duration
}

// recordedMsg reports the outcome of writing an entry to the history store
type recordedMsg struct {
	err error
}

// historyLoadedMsg carries expressions from earlier sessions, oldest first
type historyLoadedMsg struct {
	inputs []string
	err    error
}
