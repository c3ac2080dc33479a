package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxcore/voxcore/internal/brain"
	"github.com/voxcore/voxcore/internal/config"
	"github.com/voxcore/voxcore/internal/input"
	"github.com/voxcore/voxcore/internal/lifecycle"
	"github.com/voxcore/voxcore/internal/logging"
	"github.com/voxcore/voxcore/internal/tui"
)

// queueSource is a ByteSource tests can push keystrokes into.
type queueSource struct {
	mu    sync.Mutex
	bytes []byte
}

func (q *queueSource) push(s string) {
	q.mu.Lock()
	q.bytes = append(q.bytes, s...)
	q.mu.Unlock()
}

func (q *queueSource) ReadByte() (byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.bytes) == 0 {
		return 0, false
	}
	b := q.bytes[0]
	q.bytes = q.bytes[1:]
	return b, true
}

type fakeAsker struct {
	mu    sync.Mutex
	reply string
	err   error
	// hold, when set, blocks Ask until the context dies or release closes.
	hold    bool
	release chan struct{}
	calls   int
}

func (f *fakeAsker) Ask(ctx context.Context, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	hold, release, reply, err := f.hold, f.release, f.reply, f.err
	f.mu.Unlock()

	if hold {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-release:
		}
	}
	return reply, err
}

type fakeSpeaker struct {
	mu     sync.Mutex
	spoken []string
	stops  int
	err    error
	hold   bool
}

func (f *fakeSpeaker) Speak(ctx context.Context, text string) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, text)
	hold, err := f.hold, f.err
	f.mu.Unlock()

	if hold {
		<-ctx.Done()
		return nil
	}
	return err
}

func (f *fakeSpeaker) Stop() {
	f.mu.Lock()
	f.stops++
	f.mu.Unlock()
}

func (f *fakeSpeaker) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			FPS:              15,
			Theme:            "midnight",
			TranscriptLimit:  20,
			MaxEventsPerTick: 10,
			ErrorRecovery:    40 * time.Millisecond,
			ModelLabel:       "TEST",
			OutputLabel:      "CORE",
		},
		Input:  config.InputConfig{MaxLength: 100, HistorySize: 10},
		Reveal: config.RevealConfig{CharMS: 1, PeriodMS: 1, CommaMS: 1, ColonMS: 1, NewlineMS: 1, SentenceSpaceMS: 1},
	}
}

func newTestOrchestrator(t *testing.T, asker Asker, speaker *fakeSpeaker) (*Orchestrator, *queueSource) {
	t.Helper()
	if speaker == nil {
		speaker = &fakeSpeaker{}
	}
	o := New(testConfig(), logging.NewNop(), nil, asker, speaker)

	src := &queueSource{}
	o.SetDecoder(input.NewDecoder(src, input.NewLineBuffer(10, 100)))
	return o, src
}

// tickUntil drives the loop until cond holds.
func tickUntil(t *testing.T, o *Orchestrator, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		o.Tick(time.Now())
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached; phase=%s", o.machine.Phase())
}

func lastMessage(o *Orchestrator) tui.Message {
	msgs := o.transcript.Messages()
	if len(msgs) == 0 {
		return tui.Message{}
	}
	return msgs[len(msgs)-1]
}

func TestTurnHappyPath(t *testing.T) {
	asker := &fakeAsker{reply: "Hello. All good."}
	speaker := &fakeSpeaker{}
	o, src := newTestOrchestrator(t, asker, speaker)

	src.push("hi\r")
	o.Tick(time.Now())
	require.Equal(t, lifecycle.Processing, o.machine.Phase())
	require.Equal(t, "hi", lastMessage(o).Text)

	tickUntil(t, o, func() bool { return o.machine.Phase() == lifecycle.Idle })

	// Full reply landed in the transcript after reveal and speech finished.
	last := lastMessage(o)
	assert.Equal(t, tui.RoleAI, last.Role)
	assert.Equal(t, "Hello. All good.", last.Text)

	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	require.Len(t, speaker.spoken, 1)
	assert.Equal(t, "Hello. All good.", speaker.spoken[0])
}

func TestReplyWaitsForRevealBeforeIdle(t *testing.T) {
	asker := &fakeAsker{reply: "A somewhat longer reply that takes time to reveal fully."}
	o, src := newTestOrchestrator(t, asker, &fakeSpeaker{})

	src.push("q\r")
	tickUntil(t, o, func() bool { return o.machine.Phase() == lifecycle.Responding })

	// While revealing, the reply is not in the transcript yet.
	if !o.revealer.IsComplete() {
		assert.NotEqual(t, tui.RoleAI, lastMessage(o).Role)
	}

	tickUntil(t, o, func() bool { return o.machine.Phase() == lifecycle.Idle })
	assert.Equal(t, tui.RoleAI, lastMessage(o).Role)
}

func TestInterruptWhileThinking(t *testing.T) {
	asker := &fakeAsker{hold: true, release: make(chan struct{})}
	defer close(asker.release)
	o, src := newTestOrchestrator(t, asker, &fakeSpeaker{})

	src.push("slow question\r")
	o.Tick(time.Now())
	require.Equal(t, lifecycle.Processing, o.machine.Phase())

	src.push("\x03")
	o.Tick(time.Now())

	assert.Equal(t, lifecycle.Idle, o.machine.Phase())
	assert.Equal(t, "interrupted", lastMessage(o).Text)
}

func TestInterruptWhileRespondingKeepsFullReply(t *testing.T) {
	asker := &fakeAsker{reply: "The complete reply text, every word of it."}
	speaker := &fakeSpeaker{hold: true}
	o, src := newTestOrchestrator(t, asker, speaker)

	src.push("q\r")
	tickUntil(t, o, func() bool { return o.machine.Phase() == lifecycle.Responding })

	src.push("\x03")
	o.Tick(time.Now())

	assert.Equal(t, lifecycle.Idle, o.machine.Phase())
	assert.True(t, o.revealer.IsComplete(), "reveal skipped to the end")
	assert.GreaterOrEqual(t, speaker.stopCount(), 1)

	last := lastMessage(o)
	assert.Equal(t, tui.RoleAI, last.Role)
	assert.Equal(t, "The complete reply text, every word of it.", last.Text)
}

func TestLateThinkResultDiscarded(t *testing.T) {
	asker := &fakeAsker{hold: true, release: make(chan struct{}), reply: "too late"}
	o, src := newTestOrchestrator(t, asker, &fakeSpeaker{})

	src.push("q\r")
	o.Tick(time.Now())
	require.Equal(t, lifecycle.Processing, o.machine.Phase())

	// Interrupt, then let the stale worker finish.
	src.push("\x03")
	o.Tick(time.Now())
	require.Equal(t, lifecycle.Idle, o.machine.Phase())
	close(asker.release)

	// Drain several ticks; the stale result must not resurrect the turn.
	for i := 0; i < 10; i++ {
		o.Tick(time.Now())
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, lifecycle.Idle, o.machine.Phase())
	for _, m := range o.transcript.Messages() {
		assert.NotEqual(t, "too late", m.Text)
	}
}

func TestBrainErrorEntersErrorPhaseAndRecovers(t *testing.T) {
	asker := &fakeAsker{err: brain.ErrConnection}
	o, src := newTestOrchestrator(t, asker, &fakeSpeaker{})

	src.push("q\r")
	tickUntil(t, o, func() bool { return o.machine.Phase() == lifecycle.Error })
	assert.Contains(t, o.machine.LastError(), "Neural link error")

	// After the recovery window the machine returns to Idle on its own.
	tickUntil(t, o, func() bool { return o.machine.Phase() == lifecycle.Idle })
	assert.Empty(t, o.machine.LastError())
}

func TestEnterDismissesError(t *testing.T) {
	asker := &fakeAsker{err: brain.ErrTimeout}
	o, src := newTestOrchestrator(t, asker, &fakeSpeaker{})

	src.push("q\r")
	tickUntil(t, o, func() bool { return o.machine.Phase() == lifecycle.Error })

	src.push("x\r") // any submit dismisses
	o.Tick(time.Now())
	assert.Equal(t, lifecycle.Idle, o.machine.Phase())
}

func TestSpeakErrorReportsFault(t *testing.T) {
	asker := &fakeAsker{reply: "ok"}
	speaker := &fakeSpeaker{err: errTestAudio}
	o, src := newTestOrchestrator(t, asker, speaker)

	src.push("q\r")
	tickUntil(t, o, func() bool { return o.machine.Phase() == lifecycle.Error })
	assert.Contains(t, o.machine.LastError(), "Audio error")
}

func TestExitCommandQuits(t *testing.T) {
	o, src := newTestOrchestrator(t, &fakeAsker{}, nil)

	src.push("exit\r")
	o.Tick(time.Now())
	assert.True(t, o.quit)
}

func TestCtrlDQuits(t *testing.T) {
	o, src := newTestOrchestrator(t, &fakeAsker{}, nil)

	src.push("\x04")
	o.Tick(time.Now())
	assert.True(t, o.quit)
}

func TestInterruptClearsInputThenQuits(t *testing.T) {
	o, src := newTestOrchestrator(t, &fakeAsker{}, nil)

	src.push("half typed")
	o.Tick(time.Now())
	require.Equal(t, "half typed", o.buffer.Text())

	// First Ctrl-C clears the line.
	src.push("\x03")
	o.Tick(time.Now())
	assert.Equal(t, "", o.buffer.Text())
	assert.False(t, o.quit)

	// Second Ctrl-C on an empty line leaves the session.
	src.push("\x03")
	o.Tick(time.Now())
	assert.True(t, o.quit)
}

func TestSlashCommandsRunLocally(t *testing.T) {
	o, src := newTestOrchestrator(t, &fakeAsker{}, nil)

	src.push("/help\r")
	o.Tick(time.Now())
	assert.Equal(t, lifecycle.Idle, o.machine.Phase(), "commands never start a turn")
	assert.Contains(t, lastMessage(o).Text, "/theme")

	src.push("/theme solarized\r")
	o.Tick(time.Now())
	assert.Equal(t, "solarized", o.layout.Theme().Name)

	src.push("/theme nope\r")
	o.Tick(time.Now())
	assert.Contains(t, lastMessage(o).Text, "no theme named")
	assert.Equal(t, "solarized", o.layout.Theme().Name)
}

func TestSubmitWhileBusyIsRefused(t *testing.T) {
	asker := &fakeAsker{hold: true, release: make(chan struct{})}
	defer close(asker.release)
	o, src := newTestOrchestrator(t, asker, &fakeSpeaker{})

	src.push("first\r")
	o.Tick(time.Now())
	require.Equal(t, lifecycle.Processing, o.machine.Phase())

	src.push("second\r")
	o.Tick(time.Now())

	assert.Equal(t, 1, func() int { asker.mu.Lock(); defer asker.mu.Unlock(); return asker.calls }())
	assert.Contains(t, lastMessage(o).Text, "still working")
}

func TestRequestThemeFromWatcher(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeAsker{}, nil)

	o.RequestTheme("solarized")
	o.Tick(time.Now())
	assert.Equal(t, "solarized", o.layout.Theme().Name)

	// Latest request wins; the channel never blocks the caller.
	o.RequestTheme("midnight")
	o.RequestTheme("midnight")
	o.Tick(time.Now())
	assert.Equal(t, "midnight", o.layout.Theme().Name)
}

func TestFrameSnapshot(t *testing.T) {
	o, src := newTestOrchestrator(t, &fakeAsker{}, nil)

	src.push("/sta")
	o.Tick(time.Now())

	f := o.Frame(time.Now())
	assert.Equal(t, "/sta", f.Input)
	assert.Equal(t, 4, f.Cursor)
	assert.Equal(t, "/status", f.Suggestion)
	assert.Equal(t, "TEST", f.ModelLabel)
	assert.Equal(t, lifecycle.Idle, f.Phase)
}

func TestStatusPayload(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeAsker{}, nil)

	st := o.Status()
	assert.Equal(t, "IDLE", st.Phase)
	assert.False(t, st.StartedAt.IsZero())
}

var errTestAudio = errors.New("cast device gone")
