// Package player turns a stream of chords into note messages, sending only
// what changed between consecutive chords.
package player

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/leandrodaf/chordtap/internal/chord"
	"github.com/leandrodaf/chordtap/sdk/contracts"
)

const (
	minPitch = 0
	maxPitch = 127
)

// BeatConverter turns beat counts into wall time at the current tempo.
type BeatConverter interface {
	BeatsToDuration(beats float64) time.Duration
}

// Player owns the set of sounding pitches. It is not safe for concurrent use.
type Player struct {
	out      contracts.Sender
	log      contracts.Logger
	beats    BeatConverter
	now      func() time.Time
	channel  uint8
	sounding []int
	queue    Queue
}

// Option configures a Player.
type Option func(*Player)

// WithChannel sets the MIDI channel, 0-15.
func WithChannel(channel uint8) Option {
	return func(p *Player) {
		p.channel = channel & 0x0F
	}
}

// WithClock replaces time.Now for scheduling delayed notes.
func WithClock(now func() time.Time) Option {
	return func(p *Player) {
		if now != nil {
			p.now = now
		}
	}
}

// New returns a silent player writing to out.
func New(out contracts.Sender, log contracts.Logger, beats BeatConverter, opts ...Option) *Player {
	p := &Player{out: out, log: log, beats: beats, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play moves from the sounding set to the chord's notes. Lifted chords
// release everything first; otherwise only the difference is sent.
// Delay and arpeggio spacing apply to the note-ons.
func (p *Player) Play(c *chord.Chord) {
	next := inRange(c.Notes())

	var off, on []int
	if c.Lift {
		off, on = p.sounding, next
	} else {
		off, on = difference(p.sounding, next), difference(next, p.sounding)
	}

	// Arpeggio notes still waiting from the previous chord must not start
	// after their release.
	if len(off) > 0 {
		p.queue.Drop(func(m contracts.Message) bool {
			return m.Command() == contracts.NoteOn && slices.Contains(off, int(m.Data1))
		})
	}

	for _, pitch := range off {
		p.send(contracts.NoteOffMessage(p.channel, pitch))
	}

	if c.Broken < 0 {
		on = descending(on)
	}
	delay := p.beats.BeatsToDuration(c.Delay)
	step := p.beats.BeatsToDuration(abs(c.Broken))
	for i, pitch := range on {
		msg := contracts.NoteOnMessage(p.channel, pitch)
		msg.Delay = delay + time.Duration(i)*step
		p.dispatch(msg)
	}

	p.sounding = next
	p.log.Info("chord played",
		p.log.Field().String("chord", c.Name),
		p.log.Field().Ints("notes", next),
		p.log.Field().Ints("off", off),
		p.log.Field().Ints("on", on),
	)
}

// KillAll silences the instrument, forgets the sounding set and drops any
// planned notes.
func (p *Player) KillAll() {
	p.queue.Clear()
	p.send(contracts.AllSoundOffMessage(p.channel))
	p.sounding = nil
	p.log.Info("all sound off")
}

// SendProgram selects a program on the instrument. Negative programs mean
// none and send nothing.
func (p *Player) SendProgram(program int) {
	if program < 0 {
		return
	}
	p.send(contracts.ProgramChangeMessage(p.channel, program))
}

// Flush sends every planned message that is due.
func (p *Player) Flush() {
	for _, msg := range p.queue.Due(p.now()) {
		msg.Delay = 0
		p.send(msg)
	}
}

// Pending returns how many messages are waiting for their time.
func (p *Player) Pending() int {
	return p.queue.Len()
}

// Sounding returns a copy of the pitches currently held.
func (p *Player) Sounding() []int {
	return slices.Clone(p.sounding)
}

func (p *Player) dispatch(msg contracts.Message) {
	if msg.Delay <= 0 {
		p.send(msg)
		return
	}
	p.queue.Push(p.now().Add(msg.Delay), msg)
}

// send writes msg. Failures are logged and otherwise ignored so the
// sounding set keeps following the chords.
func (p *Player) send(msg contracts.Message) {
	p.log.Debug("send", p.log.Field().String("message", msg.String()))
	if err := p.out.Send(msg); err != nil {
		p.log.Error("failed to send message",
			p.log.Field().String("message", msg.String()),
			p.log.Field().Error("error", err),
		)
	}
}

// difference returns the members of a missing from b, keeping a's order.
func difference(a, b []int) []int {
	var out []int
	for _, v := range a {
		if !slices.Contains(b, v) {
			out = append(out, v)
		}
	}
	return out
}

func descending(notes []int) []int {
	out := make([]int, len(notes))
	for i, n := range notes {
		out[len(notes)-1-i] = n
	}
	return out
}

func inRange(notes []int) []int {
	out := notes[:0]
	for _, n := range notes {
		if n >= minPitch && n <= maxPitch {
			out = append(out, n)
		}
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
