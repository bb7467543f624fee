package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(data string) []Pattern {
	s := New([]byte(data))
	var out []Pattern
	for s.NextSegment() {
		out = append(out, s.CurrentMatch())
	}
	return out
}

func TestScannerLiteralOnly(t *testing.T) {
	assert.Nil(t, collect("just text, no tags here"))
}

func TestScannerVariable(t *testing.T) {
	s := New([]byte("hello {var:name} end"))
	require.True(t, s.NextSegment())
	assert.Equal(t, Var, s.CurrentMatch())
	start, end := s.MatchRange()
	assert.Equal(t, "{var:", string([]byte("hello {var:name} end")[start:end]))

	require.True(t, s.NextSegment())
	assert.Equal(t, RightBrace, s.CurrentMatch())

	assert.False(t, s.NextSegment())
}

func TestScannerAllWords(t *testing.T) {
	input := "{var:a}{raw:b}{math:1+1}{svar:c}{if case=\"x\"}<loop></loop><if></if><else></if>"
	got := collect(input)
	want := []Pattern{
		Var, RightBrace,
		Raw, RightBrace,
		Math, RightBrace,
		SVar, RightBrace,
		If, RightBrace,
		Loop, LoopClose,
		IfOpen, IfClose,
		Else, IfClose,
	}
	assert.Equal(t, want, got)
}

func TestScannerCursorMonotonic(t *testing.T) {
	s := New([]byte("a{var:x}b{raw:y}c"))
	last := -1
	for s.NextSegment() {
		start, _ := s.MatchRange()
		assert.GreaterOrEqual(t, start, last)
		last = s.Pos()
	}
}

func TestScannerNoFalseMatchOnPartialWord(t *testing.T) {
	// "{varietal}" has no ':' where "{var:" expects one, so it isn't a tag
	// opening — but its trailing '}' is still its own standalone match.
	// "<loopy>" does begin with the whole "<loop" word, and words match by
	// prefix, so it reports Loop.
	got := collect("{varietal} <loopy>")
	assert.Equal(t, []Pattern{RightBrace, Loop}, got)
}
