// Package app runs a program: it owns the clock, reads performer commands
// and drives the player one tick at a time.
package app

import (
	"context"
	"time"

	"github.com/leandrodaf/chordtap/internal/player"
	"github.com/leandrodaf/chordtap/internal/sequence"
	"github.com/leandrodaf/chordtap/internal/tempo"
	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// DefaultTick is the control loop period.
const DefaultTick = 8 * time.Millisecond

// Input is a non-blocking source of commands.
type Input interface {
	Read() (cmd contracts.Command, ok bool, err error)
}

type handler func(a *App, program *sequence.Program)

// App is the control loop. All of its state is owned by the goroutine
// calling Run.
type App struct {
	logger    contracts.Logger
	input     Input
	player    *player.Player
	metro     *tempo.Metronome
	taps      *tempo.TapClock
	scheduler *tempo.Scheduler
	tick      time.Duration
	sleep     func(time.Duration)
	now       func() time.Time
	handlers  map[contracts.Command]handler
	quit      bool
}

type config struct {
	tick    time.Duration
	sleep   func(time.Duration)
	now     func() time.Time
	channel uint8
}

// Option configures an App.
type Option func(*config)

// WithTick sets the loop period.
func WithTick(tick time.Duration) Option {
	return func(c *config) {
		if tick > 0 {
			c.tick = tick
		}
	}
}

// WithSleeper replaces time.Sleep.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(c *config) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithChannel sets the MIDI channel the player writes to.
func WithChannel(channel uint8) Option {
	return func(c *config) {
		c.channel = channel
	}
}

// New wires a control loop reading in and writing to out. A nil in leaves
// the program to beat triggers alone.
func New(out contracts.Sender, in Input, logger contracts.Logger, opts ...Option) *App {
	cfg := config{tick: DefaultTick, sleep: time.Sleep, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	timer := tempo.NewTimer(cfg.now)
	metro := tempo.NewMetronome(timer)
	a := &App{
		logger:    logger,
		input:     in,
		player:    player.New(out, logger, metro, player.WithClock(cfg.now), player.WithChannel(cfg.channel)),
		metro:     metro,
		taps:      tempo.NewTapClock(timer),
		scheduler: tempo.NewScheduler(metro, cfg.tick, cfg.sleep),
		tick:      cfg.tick,
		sleep:     cfg.sleep,
		now:       cfg.now,
	}
	a.handlers = map[contracts.Command]handler{
		contracts.Quit:             (*App).onQuit,
		contracts.KillAll:          (*App).onKillAll,
		contracts.Advance:          (*App).onAdvance,
		contracts.PreviousSequence: (*App).onPreviousSequence,
		contracts.NextSequence:     (*App).onNextSequence,
		contracts.Tap:              (*App).onTap,
	}
	return a
}

// Run plays program until it ends, a Quit command arrives or ctx is done.
// Cancellation is checked once per tick and silences the instrument before
// returning ctx.Err().
func (a *App) Run(ctx context.Context, program *sequence.Program) error {
	a.quit = false
	a.onNextSequence(program)

	for !a.quit {
		start := a.now()
		if err := ctx.Err(); err != nil {
			a.logger.Info("interrupted")
			a.player.KillAll()
			return err
		}

		a.onTick(program)

		if elapsed := a.now().Sub(start); elapsed < a.tick {
			a.sleep(a.tick - elapsed)
		}
	}
	return nil
}

func (a *App) onTick(program *sequence.Program) {
	a.metro.Sync()
	a.player.Flush()

	for {
		cmd, ok := a.nextCommand()
		if !ok {
			return
		}
		h, known := a.handlers[cmd]
		if !known {
			a.logger.Warn("unhandled command", a.logger.Field().String("command", cmd.String()))
			continue
		}
		a.logger.Debug("command", a.logger.Field().String("command", cmd.String()))
		h(a, program)
	}
}

// nextCommand prefers a due beat trigger over performer input.
func (a *App) nextCommand() (contracts.Command, bool) {
	if a.quit {
		return 0, false
	}
	if a.scheduler.Poll() {
		return contracts.Advance, true
	}
	if a.input == nil {
		return 0, false
	}
	cmd, ok, err := a.input.Read()
	if err != nil {
		a.logger.Error("input read failed", a.logger.Field().Error("error", err))
		return 0, false
	}
	return cmd, ok
}

func (a *App) onQuit(program *sequence.Program) {
	a.quit = true
	a.onKillAll(program)
}

func (a *App) onKillAll(*sequence.Program) {
	a.player.KillAll()
}

func (a *App) onAdvance(program *sequence.Program) {
	seq, ok := program.Current()
	if !ok {
		a.onNextSequence(program)
		return
	}
	c, ok := seq.Next()
	if !ok {
		a.onNextSequence(program)
		return
	}

	a.scheduler.Start(c.Beats)
	if seq.Tap {
		a.onTap(program)
	}
	a.player.Play(c)
}

func (a *App) onPreviousSequence(program *sequence.Program) {
	seq, ok := program.Current()
	if ok && seq.IsReset() {
		seq, ok = program.Previous()
	}
	if !ok {
		return
	}
	seq.Reset()
	a.startSequence(seq)
}

// onNextSequence starts the following sequence. Without an input nothing
// else could strike its first chord, so that happens right away.
func (a *App) onNextSequence(program *sequence.Program) {
	seq, ok := program.Next()
	if !ok {
		a.onQuit(program)
		return
	}
	a.startSequence(seq)
	if a.input == nil {
		a.onAdvance(program)
	}
}

func (a *App) onTap(*sequence.Program) {
	a.taps.Tap()
	if bpm := a.taps.BPM(); bpm > 0 {
		a.metro.SetBPM(bpm)
		a.logger.Debug("tempo tapped", a.logger.Field().Float64("bpm", bpm))
	}
}

func (a *App) startSequence(seq *sequence.Sequence) {
	a.player.SendProgram(seq.Program)

	fields := []contracts.Field{
		a.logger.Field().String("sequence", seq.Name),
		a.logger.Field().Int("loop", seq.Loop),
		a.logger.Field().Bool("tap", seq.Tap),
	}
	if seq.Program != sequence.NoProgram {
		fields = append(fields, a.logger.Field().Int("program", seq.Program&0x7F))
	}
	a.logger.Info("sequence started", fields...)

	if seq.BPM > 0 {
		a.metro.SetBPM(seq.BPM)
		a.taps.Reset()
	}
	a.scheduler.Clear()
}
