package value

import (
	"strings"

	"github.com/qentem-go/qentem/jsonenc"
	"github.com/qentem-go/qentem/numconv"
)

// ParseJSON parses a strict JSON document (no trailing commas, no
// single-quoted strings) into a Value tree, per spec §4.7. Any parse
// failure returns Undefined — never a partial tree, never an error.
// Callers that want // and /* */ comments stripped first should run
// jsonenc.StripComments over data before calling ParseJSON.
func ParseJSON(data []byte) Value {
	p := &jsonParser{data: data}
	p.skipWhitespace()
	v, ok := p.parseValue()
	if !ok {
		return Undefined()
	}
	p.skipWhitespace()
	if p.pos != len(p.data) {
		return Undefined()
	}
	return v
}

type jsonParser struct {
	data []byte
	pos  int
}

func (p *jsonParser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *jsonParser) parseValue() (Value, bool) {
	if p.pos >= len(p.data) {
		return Undefined(), false
	}
	switch p.data[p.pos] {
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	case '"':
		s, ok := p.parseString()
		if !ok {
			return Undefined(), false
		}
		return String(s), true
	case 't':
		return p.parseLiteral("true", Bool(true))
	case 'f':
		return p.parseLiteral("false", Bool(false))
	case 'n':
		return p.parseLiteral("null", Null())
	default:
		return p.parseNumber()
	}
}

func (p *jsonParser) parseLiteral(word string, v Value) (Value, bool) {
	if p.pos+len(word) > len(p.data) || string(p.data[p.pos:p.pos+len(word)]) != word {
		return Undefined(), false
	}
	p.pos += len(word)
	return v, true
}

func (p *jsonParser) parseObject() (Value, bool) {
	p.pos++ // '{'
	obj := newObject()
	p.skipWhitespace()
	if p.pos < len(p.data) && p.data[p.pos] == '}' {
		p.pos++
		return Value{kind: KindObject, obj: obj}, true
	}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) || p.data[p.pos] != '"' {
			return Undefined(), false
		}
		key, ok := p.parseString()
		if !ok {
			return Undefined(), false
		}
		p.skipWhitespace()
		if p.pos >= len(p.data) || p.data[p.pos] != ':' {
			return Undefined(), false
		}
		p.pos++
		p.skipWhitespace()
		v, ok := p.parseValue()
		if !ok {
			return Undefined(), false
		}
		obj.Set(key, v)
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return Undefined(), false
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
			continue
		case '}':
			p.pos++
			return Value{kind: KindObject, obj: obj}, true
		default:
			return Undefined(), false
		}
	}
}

func (p *jsonParser) parseArray() (Value, bool) {
	p.pos++ // '['
	var items []Value
	p.skipWhitespace()
	if p.pos < len(p.data) && p.data[p.pos] == ']' {
		p.pos++
		return Array(items...), true
	}
	for {
		p.skipWhitespace()
		v, ok := p.parseValue()
		if !ok {
			return Undefined(), false
		}
		items = append(items, v)
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return Undefined(), false
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
			continue
		case ']':
			p.pos++
			return Array(items...), true
		default:
			return Undefined(), false
		}
	}
}

// parseString expects p.pos to sit on the opening quote, and consumes
// through the closing one, decoding escapes via jsonenc.Unescape.
func (p *jsonParser) parseString() (string, bool) {
	p.pos++ // opening quote
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '"' {
			raw := string(p.data[start:p.pos])
			p.pos++
			return jsonenc.Unescape(raw)
		}
		if c == '\\' {
			p.pos += 2
			continue
		}
		if c < 0x20 {
			return "", false
		}
		p.pos++
	}
	return "", false
}

func (p *jsonParser) parseNumber() (Value, bool) {
	start := p.pos
	for p.pos < len(p.data) && isNumberByte(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return Undefined(), false
	}
	n := numconv.ParseNumber(string(p.data[start:p.pos]))
	switch n.Kind {
	case numconv.Natural:
		return UInt64(n.Natural), true
	case numconv.Integer:
		return Int64(n.Integer), true
	case numconv.Real:
		return Double(n.Real), true
	default:
		return Undefined(), false
	}
}

func isNumberByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '+' || c == '-' || c == '.' || c == 'e' || c == 'E':
		return true
	case c == 'x' || c == 'X' || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F'):
		return true
	default:
		return false
	}
}

// Stringify renders v as compact strict JSON. Undefined values (including
// a Ptr whose target is Undefined) are skipped inside arrays and objects,
// producing no comma, per spec §4.7. precision controls Double formatting.
func Stringify(v Value, precision int) string {
	var b strings.Builder
	writeValue(&b, v, precision)
	return b.String()
}

func writeValue(b *strings.Builder, v Value, precision int) {
	r := v.resolve()
	switch r.kind {
	case KindUndefined:
		b.WriteString("null")
	case KindNull:
		b.WriteString("null")
	case KindTrue:
		b.WriteString("true")
	case KindFalse:
		b.WriteString("false")
	case KindUInt64:
		b.WriteString(uitoa(r.u64))
	case KindInt64:
		b.WriteString(itoa(r.i64))
	case KindDouble:
		b.WriteString(numconv.FormatReal(r.f64, precision, numconv.FormatDefault))
	case KindString:
		b.WriteByte('"')
		jsonenc.Escape(b, r.str)
		b.WriteByte('"')
	case KindArray:
		b.WriteByte('[')
		first := true
		for _, item := range r.arr {
			if item.resolve().kind == KindUndefined {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			writeValue(b, item, precision)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		first := true
		r.obj.ForEach(func(key string, val Value) bool {
			if val.resolve().kind == KindUndefined {
				return true
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteByte('"')
			jsonenc.Escape(b, key)
			b.WriteString(`":`)
			writeValue(b, val, precision)
			return true
		})
		b.WriteByte('}')
	}
}

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func itoa(v int64) string {
	if v < 0 {
		return "-" + uitoa(uint64(-v))
	}
	return uitoa(uint64(v))
}
