// Package reveal produces the typewriter effect for finished responses:
// a background ticker advances a cursor through the text with longer pauses
// after punctuation, and the render loop reads the revealed prefix.
package reveal

import (
	"sync"
	"time"
)

// Delays holds the per-character pacing classes. The trailing character that
// was just revealed picks the delay before the next one.
type Delays struct {
	Char          time.Duration
	Period        time.Duration // after . ! ?
	Comma         time.Duration // after ,
	Colon         time.Duration // after : ;
	Newline       time.Duration // after \n
	SentenceSpace time.Duration // space following sentence punctuation
}

// DefaultDelays returns the standard pacing.
func DefaultDelays() Delays {
	return Delays{
		Char:          20 * time.Millisecond,
		Period:        80 * time.Millisecond,
		Comma:         40 * time.Millisecond,
		Colon:         50 * time.Millisecond,
		Newline:       150 * time.Millisecond,
		SentenceSpace: 30 * time.Millisecond,
	}
}

// For returns the delay after revealing r, given the rune before it.
func (d Delays) For(r, prev rune) time.Duration {
	switch r {
	case '.', '!', '?':
		return d.Period
	case ',':
		return d.Comma
	case ':', ';':
		return d.Colon
	case '\n':
		return d.Newline
	case ' ':
		switch prev {
		case '.', '!', '?':
			return d.SentenceSpace
		}
		return d.Char
	}
	return d.Char
}

// Revealer incrementally reveals one text at a time. Start resets it for a
// new text; Skip completes the reveal immediately and is idempotent.
type Revealer struct {
	mu       sync.Mutex
	delays   Delays
	text     []rune
	pos      int
	complete bool
	// gen invalidates a running ticker goroutine when Start or Skip is
	// called again; stale goroutines notice and exit.
	gen int
}

// New creates an idle revealer.
func New(delays Delays) *Revealer {
	return &Revealer{delays: delays, complete: true}
}

// Start begins revealing text from the beginning, replacing any reveal in
// progress.
func (r *Revealer) Start(text string) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.text = []rune(text)
	r.pos = 0
	r.complete = len(r.text) == 0
	r.mu.Unlock()

	if !r.IsComplete() {
		go r.advance(gen)
	}
}

// Current returns the prefix revealed so far.
func (r *Revealer) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.text[:r.pos])
}

// IsComplete reports whether the whole text is revealed. The orchestrator
// uses it as a barrier before leaving the responding phase.
func (r *Revealer) IsComplete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.complete
}

// Active reports whether a reveal is in progress.
func (r *Revealer) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.complete && len(r.text) > 0
}

// Skip jumps the cursor to the end. Calling it twice is the same as once.
func (r *Revealer) Skip() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.pos = len(r.text)
	r.complete = true
}

func (r *Revealer) advance(gen int) {
	for {
		r.mu.Lock()
		if gen != r.gen {
			r.mu.Unlock()
			return
		}
		if r.pos >= len(r.text) {
			r.complete = true
			r.mu.Unlock()
			return
		}
		ch := r.text[r.pos]
		var prev rune
		if r.pos > 0 {
			prev = r.text[r.pos-1]
		}
		r.pos++
		if r.pos == len(r.text) {
			r.complete = true
		}
		delay := r.delays.For(ch, prev)
		r.mu.Unlock()

		time.Sleep(delay)
	}
}
