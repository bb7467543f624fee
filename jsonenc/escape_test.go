package jsonenc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescapeBasic(t *testing.T) {
	s, ok := Unescape(`hello\nworld`)
	assert.True(t, ok)
	assert.Equal(t, "hello\nworld", s)
}

func TestUnescapeSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE encoded as a UTF-16 surrogate pair escape.
	s, ok := Unescape(`\ud83d\ude00`)
	assert.True(t, ok)
	assert.Equal(t, "\U0001F600", s)
}

func TestUnescapeDanglingBackslash(t *testing.T) {
	_, ok := Unescape(`bad\`)
	assert.False(t, ok)
}

func TestUnescapeControlByte(t *testing.T) {
	_, ok := Unescape("bad\nbyte")
	assert.False(t, ok)
}

func TestEscapeRoundTrip(t *testing.T) {
	var b strings.Builder
	Escape(&b, "a\"b\\c\nd")
	got, ok := Unescape(b.String())
	assert.True(t, ok)
	assert.Equal(t, "a\"b\\c\nd", got)
}

func TestStripCommentsPreservesStrings(t *testing.T) {
	in := []byte(`{"a": "// not a comment", "b": 1} /* trailing */`)
	out := StripComments(in)
	assert.Equal(t, `{"a": "// not a comment", "b": 1} `, string(out))
}

func TestStripCommentsLineAndBlock(t *testing.T) {
	in := []byte("{\n // comment\n \"a\": 1 /* inline */\n}")
	out := StripComments(in)
	assert.Equal(t, "{\n \n \"a\": 1 \n}", string(out))
}

func TestStripCommentsUnterminatedBlock(t *testing.T) {
	in := []byte(`{"a":1} /* oops`)
	out := StripComments(in)
	assert.Equal(t, `{"a":1} `, string(out))
}
