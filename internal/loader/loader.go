// Package loader reads programs from YAML. Every document in a file is one
// sequence:
//
//	name: Intro
//	loop: 1
//	program: 12
//	bpm: 96
//	chords:
//	  - C
//	  - Am7: {lift: true, break: 0.25}
//	  - F/C: {octave: -1, voice: {0: 1}, beats: 4}
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/leandrodaf/chordtap/internal/chord"
	"github.com/leandrodaf/chordtap/internal/sequence"
	"github.com/leandrodaf/chordtap/sdk/contracts"
)

var ErrInvalidDocument = errors.New("invalid program document")

type document struct {
	Name    string      `yaml:"name"`
	Loop    int         `yaml:"loop"`
	Tap     bool        `yaml:"tap"`
	Program programID   `yaml:"program"`
	BPM     float64     `yaml:"bpm"`
	Chords  []yaml.Node `yaml:"chords"`
}

type chordOptions struct {
	Lift   bool        `yaml:"lift"`
	Octave int         `yaml:"octave"`
	Delay  float64     `yaml:"delay"`
	Break  float64     `yaml:"break"`
	Beats  float64     `yaml:"beats"`
	Voice  map[int]int `yaml:"voice"`
	Double map[int]int `yaml:"double"`
}

// programID accepts a program number or "none".
type programID int

func (p *programID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("program must be a number or none, line %d", value.Line)
	}
	if strings.EqualFold(value.Value, "none") || value.Value == "" {
		*p = sequence.NoProgram
		return nil
	}
	n, err := strconv.Atoi(value.Value)
	if err != nil || n < 0 {
		return fmt.Errorf("program %q must be a number or none, line %d", value.Value, value.Line)
	}
	*p = programID(n)
	return nil
}

// Loader builds programs from YAML documents. Bad entries are logged and
// skipped so one typo does not stop a performance.
type Loader struct {
	log contracts.Logger
}

// New returns a loader reporting problems to log.
func New(log contracts.Logger) *Loader {
	return &Loader{log: log}
}

// LoadFile reads the program stored at path.
func (l *Loader) LoadFile(path string) (*sequence.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program: %w", err)
	}
	defer f.Close()

	program, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return program, nil
}

// Load reads every document in r. Malformed YAML fails the whole program.
func (l *Loader) Load(r io.Reader) (*sequence.Program, error) {
	program := sequence.NewProgram()
	dec := yaml.NewDecoder(r)
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}

		seq, ok := l.sequence(&node)
		if !ok {
			continue
		}
		if err := program.Add(seq); err != nil {
			l.log.Error("sequence dropped",
				l.log.Field().String("sequence", seq.Name),
				l.log.Field().Int("max", sequence.MaxSequences),
				l.log.Field().Error("error", err),
			)
		}
	}
	return program, nil
}

func (l *Loader) sequence(node *yaml.Node) (*sequence.Sequence, bool) {
	root := node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		l.log.Error("document root must be a mapping", l.log.Field().Int("line", root.Line))
		return nil, false
	}

	doc := document{Program: sequence.NoProgram}
	if err := root.Decode(&doc); err != nil {
		l.log.Error("invalid sequence", l.log.Field().Int("line", root.Line), l.log.Field().Error("error", err))
		return nil, false
	}
	if doc.Name == "" {
		l.log.Warn("sequence name missing", l.log.Field().Int("line", root.Line))
	}

	seq := sequence.New(doc.Name)
	seq.Tap = doc.Tap
	seq.Program = int(doc.Program)
	if doc.Loop > 0 {
		seq.Loop = doc.Loop
	}
	if doc.BPM > 0 {
		seq.BPM = doc.BPM
	}

	log := l.log.With(l.log.Field().String("sequence", seq.Name))
	for i := range doc.Chords {
		c, err := parseEntry(&doc.Chords[i])
		if err != nil {
			log.Error("chord skipped", log.Field().Int("line", doc.Chords[i].Line), log.Field().Error("error", err))
			continue
		}
		if err := seq.Add(c); err != nil {
			log.Error("chord dropped", log.Field().String("chord", c.Name), log.Field().Error("error", err))
		}
	}
	return seq, true
}

// parseEntry accepts "Cm7" or {Cm7: {options}}.
func parseEntry(node *yaml.Node) (*chord.Chord, error) {
	var (
		symbol string
		opts   chordOptions
	)
	switch node.Kind {
	case yaml.ScalarNode:
		symbol = node.Value
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return nil, fmt.Errorf("%w: chord mapping must have exactly one key", ErrInvalidDocument)
		}
		symbol = node.Content[0].Value
		if err := node.Content[1].Decode(&opts); err != nil {
			return nil, fmt.Errorf("chord %q: %w", symbol, err)
		}
	default:
		return nil, fmt.Errorf("%w: chord must be a string or a mapping", ErrInvalidDocument)
	}

	c, err := chord.Parse(symbol)
	if err != nil {
		return nil, err
	}
	opts.apply(c)
	return c, nil
}

func (o chordOptions) apply(c *chord.Chord) {
	c.Lift = o.Lift
	c.Broken = o.Break
	if o.Delay > 0 {
		c.Delay = o.Delay
	}
	if o.Beats > 0 {
		c.Beats = o.Beats
	}
	c.ShiftOctave(o.Octave)

	// Doubles are taken from the voicing before any replacement moves it.
	for _, slot := range sortedKeys(o.Double) {
		c.ShiftNoteOctave(slot, o.Double[slot], false)
	}
	for _, slot := range sortedKeys(o.Voice) {
		c.ShiftNoteOctave(slot, o.Voice[slot], true)
	}
}

func sortedKeys(m map[int]int) []int {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
