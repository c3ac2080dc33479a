// Package app runs the interactive session: the fixed-rate tick loop that
// polls input, drives the lifecycle machine, launches background brain and
// speech calls, and redraws the screen.
package app

import (
	"time"

	"github.com/voxcore/voxcore/internal/tui"
)

// DefaultTranscriptLimit bounds how many finished messages the transcript
// retains.
const DefaultTranscriptLimit = 50

// Transcript is the bounded message history shown on screen. Oldest
// entries are evicted once the limit is reached. Not safe for concurrent
// use; only the tick goroutine touches it.
type Transcript struct {
	messages []tui.Message
	limit    int
}

// NewTranscript creates a transcript holding at most limit messages.
func NewTranscript(limit int) *Transcript {
	if limit <= 0 {
		limit = DefaultTranscriptLimit
	}
	return &Transcript{limit: limit}
}

// Add appends a message, evicting the oldest when full.
func (t *Transcript) Add(role tui.Role, text string) {
	t.messages = append(t.messages, tui.Message{Role: role, Text: text, At: time.Now()})
	if len(t.messages) > t.limit {
		t.messages = t.messages[len(t.messages)-t.limit:]
	}
}

// Messages returns the retained messages, oldest first. The returned slice
// is the internal one; callers must not mutate it.
func (t *Transcript) Messages() []tui.Message { return t.messages }

// Len returns the number of retained messages.
func (t *Transcript) Len() int { return len(t.messages) }

// Clear drops all messages.
func (t *Transcript) Clear() { t.messages = nil }

// LastAIText returns the most recent AI message, or "" when there is none.
func (t *Transcript) LastAIText() string {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == tui.RoleAI {
			return t.messages[i].Text
		}
	}
	return ""
}
