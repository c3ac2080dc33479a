package app

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/voxcore/voxcore/internal/brain"
	"github.com/voxcore/voxcore/internal/clip"
	"github.com/voxcore/voxcore/internal/config"
	"github.com/voxcore/voxcore/internal/input"
	"github.com/voxcore/voxcore/internal/lifecycle"
	"github.com/voxcore/voxcore/internal/logging"
	"github.com/voxcore/voxcore/internal/monitor"
	"github.com/voxcore/voxcore/internal/reveal"
	"github.com/voxcore/voxcore/internal/speech"
	"github.com/voxcore/voxcore/internal/stats"
	"github.com/voxcore/voxcore/internal/tui"
)

type resultKind int

const (
	resultThink resultKind = iota
	resultSpeak
)

func (k resultKind) String() string {
	if k == resultSpeak {
		return "speak"
	}
	return "think"
}

// turnResult is what a background worker hands back to the tick loop.
// Results carry the turn ID they belong to; the loop discards results from
// turns that were interrupted before they landed.
type turnResult struct {
	turn uuid.UUID
	kind resultKind
	text string
	err  error
}

// Asker answers one prompt. Satisfied by *brain.Client.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Orchestrator owns the session. All mutable session state belongs to the
// tick goroutine; background workers communicate exclusively through the
// results channel and the lifecycle machine's own locking.
type Orchestrator struct {
	cfg    *config.Config
	log    *logging.Logger
	screen *tui.Screen

	machine  *lifecycle.Machine
	buffer   *input.LineBuffer
	decoder  *input.Decoder
	revealer *reveal.Revealer
	brain    Asker
	speaker  speech.Speaker

	layout     *tui.Layout
	transcript *Transcript
	commands   *Commands

	// results has room for one think and one speak result so workers
	// never block even when the loop is a tick behind.
	results chan turnResult

	turnID      uuid.UUID
	turnCancel  context.CancelFunc
	turnStarted time.Time
	speakDone   bool
	reply       string

	themeCh chan string

	statsMu    sync.Mutex
	statsSnap  stats.Snapshot
	statsLines []string

	startedAt time.Time
	tick      uint64
	quit      bool
}

// New wires an orchestrator from loaded configuration. The screen may be
// nil, in which case nothing is drawn (used by tests).
func New(cfg *config.Config, log *logging.Logger, screen *tui.Screen, asker Asker, speaker speech.Speaker) *Orchestrator {
	buf := input.NewLineBuffer(cfg.Input.HistorySize, cfg.Input.MaxLength)

	delays := reveal.DefaultDelays()
	if cfg.Reveal.CharMS > 0 {
		delays = reveal.Delays{
			Char:          time.Duration(cfg.Reveal.CharMS) * time.Millisecond,
			Period:        time.Duration(cfg.Reveal.PeriodMS) * time.Millisecond,
			Comma:         time.Duration(cfg.Reveal.CommaMS) * time.Millisecond,
			Colon:         time.Duration(cfg.Reveal.ColonMS) * time.Millisecond,
			Newline:       time.Duration(cfg.Reveal.NewlineMS) * time.Millisecond,
			SentenceSpace: time.Duration(cfg.Reveal.SentenceSpaceMS) * time.Millisecond,
		}
	}

	o := &Orchestrator{
		cfg:        cfg,
		log:        log,
		screen:     screen,
		machine:    lifecycle.New(),
		buffer:     buf,
		revealer:   reveal.New(delays),
		brain:      asker,
		speaker:    speaker,
		layout:     tui.NewLayout(tui.ThemeByName(cfg.App.Theme)),
		transcript: NewTranscript(cfg.App.TranscriptLimit),
		commands:   NewCommands(),
		results:    make(chan turnResult, 2),
		themeCh:    make(chan string, 1),
		startedAt:  time.Now(),
	}
	o.decoder = input.NewDecoder(input.NewStreamSource(os.Stdin), buf)

	o.machine.Subscribe(func(old, new lifecycle.Phase) {
		log.Debug("phase change", "from", old.String(), "to", new.String())
	})
	return o
}

// SetDecoder replaces the input source, used by tests to feed scripted
// bytes instead of stdin.
func (o *Orchestrator) SetDecoder(d *input.Decoder) {
	o.decoder = d
	o.buffer = d.Buffer()
}

// Machine exposes the lifecycle machine for the monitor endpoint.
func (o *Orchestrator) Machine() *lifecycle.Machine { return o.machine }

// RequestTheme asks the tick loop to switch themes. Safe to call from any
// goroutine; the latest request wins.
func (o *Orchestrator) RequestTheme(name string) {
	select {
	case o.themeCh <- name:
	default:
	}
}

// Status builds the monitor payload.
func (o *Orchestrator) Status() monitor.Status {
	o.statsMu.Lock()
	snap := o.statsSnap
	o.statsMu.Unlock()

	return monitor.Status{
		Phase:        o.machine.Phase().String(),
		TimeInPhase:  o.machine.TimeInPhase().Seconds(),
		LastError:    o.machine.LastError(),
		SpeakingText: o.machine.SpeakingText(),
		StartedAt:    o.startedAt,
		System:       snap,
	}
}

// Run drives the session until the user exits or ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		o.collectStats(gctx)
		return nil
	})

	if o.cfg.Monitor.Enabled {
		mcfg := monitor.DefaultConfig()
		mcfg.Host = o.cfg.Monitor.Host
		mcfg.Port = o.cfg.Monitor.Port
		mcfg.CORSOrigins = o.cfg.Monitor.CORSOrigins
		srv := monitor.New(mcfg, o.log.Logger, o.Status)
		g.Go(func() error { return srv.Run(gctx) })
	}

	if o.cfg.App.BootSequence && o.screen != nil {
		o.playBoot()
	}
	o.transcript.Add(tui.RoleSystem, "voxcore online. type to transmit.")

	fps := o.cfg.App.FPS
	if fps <= 0 {
		fps = 15
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for !o.quit {
		select {
		case <-gctx.Done():
			o.quit = true
		case <-ticker.C:
			o.Tick(time.Now())
			o.draw()
		}
	}

	o.interruptTurn()
	cancel()
	return g.Wait()
}

// Tick runs one iteration of the loop: drain input, absorb at most one
// worker result, advance phase housekeeping. Exported so tests can drive
// the loop without a ticker.
func (o *Orchestrator) Tick(now time.Time) {
	o.tick++

	max := o.cfg.App.MaxEventsPerTick
	if max <= 0 {
		max = 10
	}
	for i := 0; i < max; i++ {
		ev, ok := o.decoder.Poll()
		if !ok {
			break
		}
		o.handleEvent(ev)
		if o.quit {
			return
		}
	}

	select {
	case res := <-o.results:
		o.handleResult(res)
	default:
	}

	select {
	case name := <-o.themeCh:
		o.applyTheme(name)
	default:
	}

	o.advancePhase(now)
}

func (o *Orchestrator) handleEvent(ev input.Event) {
	switch ev.Kind {
	case input.KindSubmit:
		o.handleSubmit(ev.Text)
	case input.KindInterrupt:
		o.handleInterrupt()
	case input.KindExit:
		o.quit = true
	case input.KindCopy:
		o.copyLastReply()
	}
	// Editing events already mutated the buffer inside the decoder.
}

func (o *Orchestrator) handleSubmit(text string) {
	if o.machine.Phase() == lifecycle.Error {
		// Enter dismisses a fault early.
		o.machine.Transition(lifecycle.Idle)
		return
	}

	if IsExitCommand(text) {
		o.quit = true
		return
	}

	if res := o.commands.Dispatch(text); res.handled {
		o.runCommand(res)
		return
	}

	if o.machine.Phase() != lifecycle.Idle {
		o.transcript.Add(tui.RoleSystem, "still working on the last request")
		return
	}

	o.transcript.Add(tui.RoleUser, text)
	o.startTurn(text)
}

func (o *Orchestrator) runCommand(res commandResult) {
	switch {
	case res.quit:
		o.quit = true
	case res.clear:
		o.transcript.Clear()
	case res.theme != "":
		o.applyTheme(res.theme)
	case res.speakStatus:
		o.speakStatusReport()
	case res.message != "":
		o.transcript.Add(tui.RoleSystem, res.message)
	}
}

func (o *Orchestrator) applyTheme(name string) {
	theme := tui.ThemeByName(name)
	if theme.Name != name {
		o.transcript.Add(tui.RoleSystem, "no theme named "+name)
		return
	}
	o.layout.SetTheme(theme)
	o.transcript.Add(tui.RoleSystem, "theme set to "+name)
}

// startTurn launches the background think call for a submitted prompt.
func (o *Orchestrator) startTurn(prompt string) {
	if !o.machine.Transition(lifecycle.Processing) {
		return
	}

	turn := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	o.turnID = turn
	o.turnCancel = cancel
	o.turnStarted = time.Now()
	o.speakDone = false
	o.reply = ""

	log := o.log.WithTurn(turn.String())
	log.Info("turn started", "prompt_len", len(prompt))

	go func() {
		text, err := o.brain.Ask(ctx, prompt)
		o.results <- turnResult{turn: turn, kind: resultThink, text: text, err: err}
	}()
}

// speakStatusReport runs the spoken system report as a local turn that
// skips the brain.
func (o *Orchestrator) speakStatusReport() {
	if !o.machine.Transition(lifecycle.Processing) {
		o.transcript.Add(tui.RoleSystem, "busy; try /status again in a moment")
		return
	}

	o.statsMu.Lock()
	report := stats.SpokenReport(o.statsSnap)
	o.statsMu.Unlock()

	o.turnID = uuid.New()
	o.turnStarted = time.Now()
	o.speakDone = false
	o.beginResponding(report)
}

func (o *Orchestrator) handleResult(res turnResult) {
	if res.turn != o.turnID {
		o.log.Debug("discarding stale result", "kind", res.kind, "turn", res.turn.String())
		return
	}

	switch res.kind {
	case resultThink:
		if res.err != nil {
			o.log.Warn("brain call failed", "error", res.err)
			o.failTurn(brain.ShortError(res.err))
			return
		}
		o.beginResponding(res.text)

	case resultSpeak:
		if res.err != nil {
			o.log.Warn("speech failed", "error", res.err)
			o.revealer.Skip()
			o.failTurn(speech.ShortError(res.err))
			return
		}
		o.speakDone = true
	}
}

// beginResponding moves a turn into the reveal+speak stage.
func (o *Orchestrator) beginResponding(text string) {
	if !o.machine.Transition(lifecycle.Responding) {
		return
	}
	o.reply = text
	o.machine.SetSpeakingText(text)
	o.revealer.Start(text)

	turn := o.turnID
	ctx := context.Background()
	if o.turnCancel == nil {
		// Local turns (status report) still need a cancel handle for
		// interrupts.
		ctx, o.turnCancel = context.WithCancel(ctx)
	} else {
		ctx, o.turnCancel = renewCancel(o.turnCancel)
	}

	go func() {
		err := o.speaker.Speak(ctx, text)
		o.results <- turnResult{turn: turn, kind: resultSpeak, err: err}
	}()
}

// renewCancel replaces a turn's cancel func with a fresh context chained
// off Background, releasing the think context.
func renewCancel(old context.CancelFunc) (context.Context, context.CancelFunc) {
	old()
	return context.WithCancel(context.Background())
}

// failTurn records a fault. The machine stays in Error until the recovery
// window elapses or the user dismisses it.
func (o *Orchestrator) failTurn(message string) {
	o.machine.SetError(message)
	o.transcript.Add(tui.RoleSystem, message)
	o.endTurn()
}

func (o *Orchestrator) endTurn() {
	if o.turnCancel != nil {
		o.turnCancel()
		o.turnCancel = nil
	}
	o.turnID = uuid.Nil
	o.reply = ""
	o.speakDone = false
	o.machine.SetSpeakingText("")
}

func (o *Orchestrator) handleInterrupt() {
	switch o.machine.Phase() {
	case lifecycle.Processing:
		o.log.Info("turn interrupted while thinking")
		o.transcript.Add(tui.RoleSystem, "interrupted")
		o.endTurn()
		o.machine.ForceState(lifecycle.Idle)

	case lifecycle.Responding:
		o.log.Info("turn interrupted while responding")
		// The full reply still lands in the transcript; only the
		// theatrics are cut short.
		o.revealer.Skip()
		o.speaker.Stop()
		if o.reply != "" {
			o.transcript.Add(tui.RoleAI, o.reply)
		}
		o.endTurn()
		o.machine.ForceState(lifecycle.Idle)

	default:
		if o.buffer.Len() > 0 {
			o.buffer.Clear()
			return
		}
		o.quit = true
	}
}

// advancePhase finishes turns and recovers from faults. A reply is
// finalized only when both the reveal animation and audio playback are
// done.
func (o *Orchestrator) advancePhase(now time.Time) {
	switch o.machine.Phase() {
	case lifecycle.Responding:
		if o.speakDone && o.revealer.IsComplete() {
			o.log.Info("turn complete", "duration", now.Sub(o.turnStarted).String())
			o.transcript.Add(tui.RoleAI, o.reply)
			o.endTurn()
			o.machine.Transition(lifecycle.Idle)
		}

	case lifecycle.Error:
		recovery := o.cfg.App.ErrorRecovery
		if recovery <= 0 {
			recovery = 5 * time.Second
		}
		if o.machine.TimeInPhase() >= recovery {
			o.machine.Transition(lifecycle.Idle)
		}
	}
}

func (o *Orchestrator) copyLastReply() {
	text := o.transcript.LastAIText()
	if text == "" {
		o.transcript.Add(tui.RoleSystem, "nothing to copy yet")
		return
	}
	res, err := clip.WriteAll(text)
	if err != nil {
		o.transcript.Add(tui.RoleSystem, "copy failed: "+err.Error())
		return
	}
	o.transcript.Add(tui.RoleSystem, "reply copied via "+string(res.Method))
}

// collectStats refreshes the sidebar HUD every couple of seconds.
func (o *Orchestrator) collectStats(ctx context.Context) {
	collector := stats.NewCollector()

	refresh := func() {
		snap := collector.Collect()
		lines := stats.HUDLines(snap)
		o.statsMu.Lock()
		o.statsSnap = snap
		o.statsLines = lines
		o.statsMu.Unlock()
	}
	refresh()

	t := time.NewTicker(2 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			refresh()
		}
	}
}

// Frame snapshots the session for the renderer.
func (o *Orchestrator) Frame(now time.Time) tui.Frame {
	width, height := 80, 24
	if o.screen != nil {
		width, height = o.screen.Size()
	}

	o.statsMu.Lock()
	statsLines := o.statsLines
	o.statsMu.Unlock()

	var suggestion string
	text := o.buffer.Text()
	if len(text) > 0 && text[0] == '/' {
		suggestion = o.commands.Suggest(text)
	}

	return tui.Frame{
		Width:       width,
		Height:      height,
		Tick:        o.tick,
		Phase:       o.machine.Phase(),
		Status:      o.machine.StatusMessage(),
		Hint:        o.machine.Hint(),
		LastError:   o.machine.LastError(),
		Input:       text,
		Cursor:      o.buffer.Cursor(),
		Suggestion:  suggestion,
		Messages:    o.transcript.Messages(),
		Reveal:      o.revealer.Current(),
		Revealing:   o.revealer.Active(),
		StatsLines:  statsLines,
		ModelLabel:  o.cfg.App.ModelLabel,
		OutputLabel: o.cfg.App.OutputLabel,
		Clock:       now,
	}
}

func (o *Orchestrator) draw() {
	if o.screen == nil {
		return
	}
	o.screen.Resize()
	o.screen.Draw(o.layout.Render(o.Frame(time.Now())))
}

func (o *Orchestrator) playBoot() {
	for _, frame := range tui.BootFrames(o.layout.Theme(), "v1") {
		o.screen.Draw(frame)
		time.Sleep(120 * time.Millisecond)
	}
	time.Sleep(200 * time.Millisecond)
}

// interruptTurn cancels any in-flight work during shutdown.
func (o *Orchestrator) interruptTurn() {
	o.speaker.Stop()
	o.endTurn()
}
