// Package lifecycle implements the agent's validated state machine. The
// machine is the single piece of state shared between the render loop and
// background worker completions, so every read and write goes through one
// mutex.
package lifecycle

import (
	"sync"
	"time"
)

// Phase is the agent's lifecycle phase.
type Phase int

const (
	Idle Phase = iota
	Processing
	Responding
	Error
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "IDLE"
	case Processing:
		return "PROCESSING"
	case Responding:
		return "RESPONDING"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

// validTransitions is the exhaustive edge set. Anything not listed is
// rejected by Transition.
var validTransitions = map[Phase][]Phase{
	Idle:       {Processing},
	Processing: {Responding, Idle, Error},
	Responding: {Idle, Error},
	Error:      {Idle},
}

// Transition records one state change.
type Transition struct {
	From Phase
	To   Phase
	At   time.Time
}

// Observer is notified after each state change with (old, new).
type Observer func(old, new Phase)

// maxHistory bounds the kept transition log.
const maxHistory = 64

// Machine is a thread-safe lifecycle state machine.
type Machine struct {
	mu           sync.Mutex
	phase        Phase
	enteredAt    time.Time
	lastError    string
	speakingText string
	observers    []Observer
	history      []Transition
	now          func() time.Time
}

// New creates a machine in Idle.
func New() *Machine {
	m := &Machine{phase: Idle, now: time.Now}
	m.enteredAt = m.now()
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// TimeInPhase returns how long the current phase has been active.
func (m *Machine) TimeInPhase() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now().Sub(m.enteredAt)
}

// LastError returns the stored error message, empty outside Error.
func (m *Machine) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// SpeakingText returns the text currently being spoken, empty when none.
func (m *Machine) SpeakingText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speakingText
}

// SetSpeakingText records the text being spoken for UI echo. Pass the empty
// string to clear it.
func (m *Machine) SetSpeakingText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speakingText = text
}

// Transition atomically moves to target if the edge is allowed. It returns
// false, leaving state untouched, for any edge outside the table.
func (m *Machine) Transition(target Phase) bool {
	m.mu.Lock()
	allowed := false
	for _, p := range validTransitions[m.phase] {
		if p == target {
			allowed = true
			break
		}
	}
	if !allowed {
		m.mu.Unlock()
		return false
	}
	old := m.apply(target)
	observers := m.snapshot()
	m.mu.Unlock()

	notify(observers, old, target)
	return true
}

// ForceState moves to target without validation. Used for error-timeout
// auto-recovery and interrupt-driven returns to Idle.
func (m *Machine) ForceState(target Phase) {
	m.mu.Lock()
	old := m.apply(target)
	observers := m.snapshot()
	m.mu.Unlock()

	notify(observers, old, target)
}

// SetError transitions to Error and records message. Falls back to a forced
// transition when Error is not reachable from the current phase, so a
// failure report is never lost.
func (m *Machine) SetError(message string) {
	m.mu.Lock()
	old := m.apply(Error)
	m.lastError = message
	observers := m.snapshot()
	m.mu.Unlock()

	notify(observers, old, Error)
}

// Subscribe registers an observer. Observers run outside the lock; a
// panicking observer is swallowed and can never corrupt machine state.
func (m *Machine) Subscribe(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// History returns a copy of the recorded transitions, oldest first.
func (m *Machine) History() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

// apply swaps the phase under the held lock and returns the old phase.
func (m *Machine) apply(target Phase) Phase {
	old := m.phase
	if old == Error && target != Error {
		m.lastError = ""
	}
	m.phase = target
	m.enteredAt = m.now()
	m.history = append(m.history, Transition{From: old, To: target, At: m.enteredAt})
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	return old
}

func (m *Machine) snapshot() []Observer {
	out := make([]Observer, len(m.observers))
	copy(out, m.observers)
	return out
}

func notify(observers []Observer, old, new Phase) {
	for _, o := range observers {
		func() {
			defer func() { _ = recover() }()
			o(old, new)
		}()
	}
}

// StatusMessage returns a short status line for the footer.
func (m *Machine) StatusMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.phase {
	case Processing:
		return "PROCESSING"
	case Responding:
		return "TRANSMITTING"
	case Error:
		if m.lastError != "" {
			return m.lastError
		}
		return "FAULT"
	}
	return "READY"
}

// Hint returns the key hint matching the current phase.
func (m *Machine) Hint() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.phase {
	case Processing, Responding:
		return "ctrl+c to interrupt"
	case Error:
		return "press enter to dismiss"
	}
	return "type to transmit · ctrl+c to exit"
}
