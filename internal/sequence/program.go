package sequence

// Program is the ordered set of sequences played in one run.
type Program struct {
	sequences []*Sequence
	current   int
}

// NewProgram returns an empty program positioned before its first sequence.
func NewProgram() *Program {
	return &Program{current: -1}
}

// Add appends s. It returns ErrTooManySequences once the program is full.
func (p *Program) Add(s *Sequence) error {
	if len(p.sequences) >= MaxSequences {
		return ErrTooManySequences
	}
	p.sequences = append(p.sequences, s)
	return nil
}

// Current returns the sequence being played, if any.
func (p *Program) Current() (*Sequence, bool) {
	if p.current < 0 || p.current >= len(p.sequences) {
		return nil, false
	}
	return p.sequences[p.current], true
}

// Next moves to the following sequence, reporting false after the last one.
func (p *Program) Next() (*Sequence, bool) {
	if p.current >= len(p.sequences)-1 {
		return nil, false
	}
	p.current++
	return p.sequences[p.current], true
}

// Previous steps back one sequence, staying on the first.
func (p *Program) Previous() (*Sequence, bool) {
	if p.current > 0 {
		p.current--
	}
	return p.Current()
}

// Len returns the number of sequences.
func (p *Program) Len() int {
	return len(p.sequences)
}

// Sequences returns the sequences in order.
func (p *Program) Sequences() []*Sequence {
	return p.sequences
}
