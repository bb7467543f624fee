// Package scanner implements the multi-pattern scanner from spec §4.1: a
// single left-to-right pass that locates the next tag opening (or a '}'
// terminator), one hit per call, against a small static vocabulary grouped
// by first byte.
package scanner

// Pattern identifies which vocabulary word matched.
type Pattern int

const (
	// None means no further match exists before the end of input.
	None Pattern = iota
	Var
	Raw
	Math
	SVar
	If
	Loop
	LoopClose
	IfOpen
	IfClose
	Else
	RightBrace
)

type word struct {
	text    string
	pattern Pattern
}

// braceWords are probed when the current byte is '{'.
var braceWords = []word{
	{"{var:", Var},
	{"{raw:", Raw},
	{"{math:", Math},
	{"{svar:", SVar},
	{"{if", If},
}

// angleWords are probed when the current byte is '<'. Their order does not
// affect matching (the closing words differ from the opening ones in the
// byte after '<'), but longer/more specific words are listed first for
// readability.
var angleWords = []word{
	{"</loop>", LoopClose},
	{"</if>", IfClose},
	{"<loop", Loop},
	{"<if", IfOpen},
	{"<else", Else},
}

// Scanner locates tag openings and '}' terminators one match at a time.
type Scanner struct {
	data  []byte
	pos   int
	match Pattern
	start int
	end   int
}

// New returns a Scanner over data, positioned at the start.
func New(data []byte) *Scanner {
	return &Scanner{data: data}
}

// Pos returns the scanner's current cursor.
func (s *Scanner) Pos() int { return s.pos }

// Seek moves the cursor directly to pos, clearing any pending match. A
// caller that has consumed a span of content itself (e.g. a brace-tag
// body scanned for its balancing '}' independently of the generic
// vocabulary) uses this to resync the scanner past it.
func (s *Scanner) Seek(pos int) {
	s.pos = pos
	s.match = None
}

// CurrentMatch returns the pattern id found by the most recent
// NextSegment call, or None if the scanner hasn't matched (or exhausted
// input) yet.
func (s *Scanner) CurrentMatch() Pattern { return s.match }

// MatchRange returns [start, end) of the most recent match: start is the
// offset of the first matched byte, end is the offset immediately after
// the matched word (or, for RightBrace, immediately after '}').
func (s *Scanner) MatchRange() (int, int) { return s.start, s.end }

// NextSegment advances the cursor and looks for the next match. Returns
// false once no further match exists before the end of input; the cursor
// never decreases between calls (spec §8 invariant 6).
func (s *Scanner) NextSegment() bool {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch c {
		case '{':
			if p, end, ok := matchWords(s.data, s.pos, braceWords); ok {
				s.match, s.start, s.end = p, s.pos, end
				s.pos = end
				return true
			}
		case '<':
			if p, end, ok := matchWords(s.data, s.pos, angleWords); ok {
				s.match, s.start, s.end = p, s.pos, end
				s.pos = end
				return true
			}
		case '}':
			s.match, s.start, s.end = RightBrace, s.pos, s.pos+1
			s.pos++
			return true
		}
		s.pos++
	}
	s.match = None
	return false
}

// matchWords tries each candidate in order, probing the word's last byte
// first (cheap rejection) before comparing the remaining bytes, per §4.1.
func matchWords(data []byte, pos int, words []word) (Pattern, int, bool) {
	for _, w := range words {
		n := len(w.text)
		end := pos + n
		if end > len(data) {
			continue
		}
		if data[end-1] != w.text[n-1] {
			continue
		}
		matched := true
		for i := 0; i < n-1; i++ {
			if data[pos+i] != w.text[i] {
				matched = false
				break
			}
		}
		if matched {
			return w.pattern, end, true
		}
	}
	return None, 0, false
}
