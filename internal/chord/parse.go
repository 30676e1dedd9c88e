package chord

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRoot is returned when a symbol does not start with a note letter.
var ErrInvalidRoot = errors.New("invalid chord root")

// rootPitch maps note letters to pitch classes. H is the German B.
var rootPitch = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11, 'h': 11,
}

// domScale is the dominant (mixolydian) scale, indexed by degree-1 mod 7.
var domScale = [7]int{0, 2, 4, 5, 7, 9, 10}

// qualities are tried in order; "m" must come last.
var qualities = []struct {
	prefix  string
	quality Quality
}{
	{"mMaj", MinorMajor},
	{"maj", Major},
	{"dim", Diminished},
	{"aug", Augmented},
	{"sus", Suspended},
	{"m", Minor},
}

// extensionRule is one step of the 7/9/11/13 cascade. Rules are applied in
// table order for every step up to and including the parsed extension.
type extensionRule struct {
	step  int
	apply func(c *Chord)
}

var cascade = []extensionRule{
	{7, func(c *Chord) {
		switch {
		case c.Quality.Has(Diminished) && c.Extension == 7:
			c.voicing[9] = PresentAt(0)
		case !c.Quality.Has(Major):
			c.voicing[10] = PresentAt(0)
		}
	}},
	{9, func(c *Chord) { c.voicing[2] = PresentAt(1) }},
	{11, func(c *Chord) { c.voicing[5] = PresentAt(1) }},
	{13, func(c *Chord) { c.voicing[9] = PresentAt(1) }},
}

// Parse parses a chord symbol:
//
//	<root><accidentals><quality><extension><alterations>*[/<bass>]
//
// Only the root is mandatory. Anything after the last recognised element is
// ignored.
func Parse(text string) (*Chord, error) {
	root, pos, ok := parseRoot(text)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRoot, text)
	}

	c := &Chord{
		Name:   text,
		Root:   root,
		Octave: DefaultOctave,
		Bass:   -1,
	}

	pos = c.setQuality(text, pos)
	pos = c.setExtension(text, pos)
	for {
		next := c.addAlteration(text, pos)
		if next == pos {
			break
		}
		pos = next
	}
	c.setBass(text, pos)

	return c, nil
}

// MustParse is like Parse but panics on error. For tests and tables.
func MustParse(text string) *Chord {
	c, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return c
}

func parseRoot(s string) (pitch, end int, ok bool) {
	if len(s) == 0 {
		return 0, 0, false
	}
	n, ok := rootPitch[lower(s[0])]
	if !ok {
		return 0, 0, false
	}

	end = 1
	for ; end < len(s); end++ {
		switch {
		case s[end] == '#':
			n++
		case lower(s[end]) == 'b':
			n--
		default:
			return mod12(n), end, true
		}
	}
	return mod12(n), end, true
}

func (c *Chord) setQuality(s string, pos int) int {
	c.Quality = Dominant
	for _, q := range qualities {
		if strings.HasPrefix(s[pos:], q.prefix) {
			c.Quality = q.quality
			pos += len(q.prefix)
			break
		}
	}

	c.voicing[0] = PresentAt(0)
	c.voicing[4] = PresentAt(0)
	c.voicing[7] = PresentAt(0)

	if c.Quality.Has(Minor | Diminished | Suspended) {
		c.voicing[4] = Absent
	}
	if c.Quality.Has(Minor | Diminished) {
		c.voicing[3] = PresentAt(0)
	}
	if c.Quality.Has(Major) {
		c.voicing[11] = PresentAt(0)
	}
	if c.Quality.Has(Augmented | Diminished) {
		c.voicing[7] = Absent
	}
	if c.Quality.Has(Augmented) {
		c.voicing[8] = PresentAt(0)
	}
	if c.Quality.Has(Diminished) {
		c.voicing[6] = PresentAt(0)
	}
	return pos
}

func parseExtension(s string) (ext, width int) {
	if len(s) == 0 {
		return 0, 0
	}
	switch s[0] {
	case '2', '4', '5', '6', '7', '9':
		return int(s[0] - '0'), 1
	case '1':
		if len(s) > 1 && (s[1] == '1' || s[1] == '3') {
			return 10 + int(s[1]-'0'), 2
		}
	}
	return 0, 0
}

func (c *Chord) setExtension(s string, pos int) int {
	ext, width := parseExtension(s[pos:])
	c.Extension = ext

	switch ext {
	case 7, 9, 11, 13:
		for _, rule := range cascade {
			if rule.step <= ext {
				rule.apply(c)
			}
		}
	case 6:
		c.voicing[9] = PresentAt(0)
	case 5:
		if !c.Quality.Has(Augmented) {
			c.voicing[4] = Absent
		}
	case 2:
		c.voicing[2] = PresentAt(0)
	case 4, 0:
		if c.Quality.Has(Suspended) {
			c.voicing[5] = PresentAt(0)
		}
	}
	return pos + width
}

// addAlteration consumes one alteration such as "b9", "#11", "add9" or
// "no3" and returns the new position, or pos when nothing was consumed.
func (c *Chord) addAlteration(s string, pos int) int {
	i := pos
	add, omit := false, false
	switch {
	case strings.HasPrefix(s[i:], "add"):
		add = true
		i += 3
	case strings.HasPrefix(s[i:], "no"):
		omit = true
		i += 2
	}

	offset := 0
	for ; i < len(s) && (s[i] == 'b' || s[i] == '#'); i++ {
		if s[i] == 'b' {
			offset--
		} else {
			offset++
		}
	}

	if !add && !omit && offset == 0 {
		return pos
	}
	if i >= len(s) || s[i] < '1' || s[i] > '9' {
		return pos
	}

	degree := int(s[i] - '0')
	i++
	if degree == 1 && i < len(s) && (s[i] == '1' || s[i] == '3') {
		degree = 10 + int(s[i]-'0')
		i++
	}

	slot := domScale[(degree-1)%7]
	switch {
	case slot == 4 && c.Quality.Has(Minor|Diminished):
		slot--
	case slot == 10 && c.Quality.Has(Diminished):
		slot--
	case slot == 10 && c.Quality.Has(Major):
		slot++
	}

	if !add {
		c.voicing[slot] = Absent
	}

	degree += offset
	slot = mod12(slot + offset)

	if !omit {
		if degree > 7 {
			c.voicing[slot] = PresentAt(1)
		} else {
			c.voicing[slot] = PresentAt(0)
		}
	}
	return i
}

func (c *Chord) setBass(s string, pos int) {
	if pos >= len(s) || s[pos] != '/' {
		return
	}
	pitch, _, ok := parseRoot(s[pos+1:])
	if !ok {
		return
	}
	c.Bass = mod12(pitch - c.Root)
	c.voicing[c.Bass] = BassBelow(1)
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func mod12(n int) int {
	n %= 12
	if n < 0 {
		n += 12
	}
	return n
}
