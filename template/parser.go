package template

import (
	"fmt"
	"strings"

	"github.com/qentem-go/qentem/expr"
	"github.com/qentem-go/qentem/scanner"
)

// Parse scans and parses a template document into a Template, per spec
// §4.2. Parsing keeps a scope stack of currently-open <loop>/<if>
// containers (the original engine's LoopTag.Parent chain, generalized
// into an explicit Go stack of frames instead of a pointer-linked tree
// walked during parsing).
func Parse(data []byte) (*Template, error) {
	p := &parser{data: string(data), s: scanner.New(data)}
	root := &rootFrame{}
	p.stack = []frame{root}

	if err := p.run(); err != nil {
		return nil, err
	}
	if len(p.stack) != 1 {
		return nil, fmt.Errorf("qentem: unclosed <loop>/<if> at end of template")
	}
	return &Template{Nodes: root.nodes}, nil
}

type frame interface {
	appendChild(n Node)
}

type rootFrame struct{ nodes []Node }

func (f *rootFrame) appendChild(n Node) { f.nodes = append(f.nodes, n) }

type loopFrame struct{ loop *Loop }

func (f *loopFrame) appendChild(n Node) { f.loop.Body = append(f.loop.Body, n) }

type ifFrame struct{ ifNode *If }

func (f *ifFrame) appendChild(n Node) {
	last := &f.ifNode.Cases[len(f.ifNode.Cases)-1]
	last.Body = append(last.Body, n)
}

type parser struct {
	data  string
	s     *scanner.Scanner
	stack []frame
	last  int // end of the last consumed match (start of next literal run)
}

func (p *parser) top() frame { return p.stack[len(p.stack)-1] }

func (p *parser) emitLiteral(end int) {
	if end > p.last {
		text := p.data[p.last:end]
		if text != "" {
			p.top().appendChild(&Literal{Text: text})
		}
	}
}

func (p *parser) run() error {
	for p.s.NextSegment() {
		start, end := p.s.MatchRange()
		p.emitLiteral(start)

		switch p.s.CurrentMatch() {
		case scanner.Var, scanner.Raw, scanner.Math, scanner.SVar, scanner.If:
			if err := p.parseBraceTag(p.s.CurrentMatch(), end); err != nil {
				return err
			}
		case scanner.Loop:
			if err := p.parseLoopOpen(end); err != nil {
				return err
			}
		case scanner.LoopClose:
			if err := p.closeLoop(); err != nil {
				return err
			}
			p.last = end
		case scanner.IfOpen:
			if err := p.parseIfOpen(end); err != nil {
				return err
			}
		case scanner.Else:
			if err := p.parseElse(end); err != nil {
				return err
			}
		case scanner.IfClose:
			if err := p.closeIf(); err != nil {
				return err
			}
			p.last = end
		case scanner.RightBrace:
			// A '}' not consumed as the close of a brace tag is plain text.
			p.emitLiteral(end)
			p.last = end
		}
	}
	p.emitLiteral(len(p.data))
	return nil
}

// parseBraceTag handles {var:...}, {raw:...}, {math:...}, {svar:...} and
// {if ...}, all of which run from just after their opening word to their
// balancing '}'. The span is found by counting brace depth directly
// against the raw text rather than asking the scanner for the next
// match: content such as "{math: {var:n} + 1}" or "{svar: {0}, a}"
// legitimately contains '{'/'}' of its own, and the scanner's vocabulary
// would otherwise latch onto those as if they ended the outer tag. A
// missing/mismatched closing brace is malformed and is re-emitted as
// literal text instead of failing the whole parse.
func (p *parser) parseBraceTag(kind scanner.Pattern, contentStart int) error {
	closeIdx, ok := findBraceClose(p.data, contentStart)
	if !ok {
		// Malformed: no balancing '}' found before the end of input. The
		// whole thing, from its opening brace onward, round-trips as
		// literal text rather than failing the parse.
		start := p.lastTagStart(contentStart)
		p.top().appendChild(&Literal{Text: p.data[start:]})
		p.last = len(p.data)
		p.s.Seek(len(p.data))
		return nil
	}
	content := p.data[contentStart:closeIdx]
	closeEnd := closeIdx + 1
	p.last = closeEnd
	p.s.Seek(closeEnd)

	switch kind {
	case scanner.Var:
		p.top().appendChild(&Variable{Path: content})
	case scanner.Raw:
		p.top().appendChild(&RawVariable{Path: content})
	case scanner.Math:
		// A malformed expression never aborts the parse (spec §7): the
		// node is kept with a nil Compiled, and the renderer re-emits the
		// tag's own literal text for it, the same as a failed eval.
		prog, err := expr.Compile(content)
		if err != nil {
			prog = nil
		}
		p.top().appendChild(&Math{Source: content, Compiled: prog})
	case scanner.SVar:
		sv, err := parseSuperVariable(content)
		if err != nil {
			return err
		}
		p.top().appendChild(sv)
	case scanner.If:
		node, err := parseInlineIf(content)
		if err != nil {
			return err
		}
		p.top().appendChild(node)
	}
	return nil
}

// lastTagStart recovers the opening-brace offset for a malformed tag so
// the whole thing (e.g. "{math:" with no terminator) round-trips as
// literal text.
func (p *parser) lastTagStart(contentStart int) int {
	return strings.LastIndexByte(p.data[:contentStart], '{')
}

// findBraceClose returns the offset of the '}' balancing the brace tag
// whose content starts at start (depth 1 already open), honoring any
// '{'/'}' nested inside that content.
func findBraceClose(s string, start int) (int, bool) {
	depth := 1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// parseSuperVariable reads "{svar:path, child0, child1, ...}" content (the
// text between "{svar:" and its closing '}'): the first comma-separated
// part is a variable path, the rest are var/raw/math child tags whose own
// '{'/'}' must not be mistaken for a top-level separator.
func parseSuperVariable(content string) (*SuperVariable, error) {
	parts := splitTopLevelCommas(content)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 0 {
		return &SuperVariable{}, nil
	}

	sv := &SuperVariable{Path: parts[0], Raw: content}
	for _, raw := range parts[1:] {
		child, err := parseSuperVariableChild(raw)
		if err != nil {
			return nil, err
		}
		sv.Children = append(sv.Children, child)
	}
	return sv, nil
}

func parseSuperVariableChild(raw string) (Node, error) {
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return nil, fmt.Errorf("qentem: {svar:} child %q is not a tag", raw)
	}
	inner := raw[1 : len(raw)-1]
	switch {
	case strings.HasPrefix(inner, "var:"):
		return &Variable{Path: strings.TrimPrefix(inner, "var:")}, nil
	case strings.HasPrefix(inner, "raw:"):
		return &RawVariable{Path: strings.TrimPrefix(inner, "raw:")}, nil
	case strings.HasPrefix(inner, "math:"):
		src := strings.TrimPrefix(inner, "math:")
		prog, err := expr.Compile(src)
		if err != nil {
			prog = nil
		}
		return &Math{Source: src, Compiled: prog}, nil
	default:
		return nil, fmt.Errorf("qentem: {svar:} child %q must be var/raw/math", raw)
	}
}

// splitTopLevelCommas splits s on commas that are not nested inside a
// '{'...'}' span, so a child tag's own content never gets cut in half.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

func parseInlineIf(content string) (*InlineIf, error) {
	attrs := readAttrs(content)
	// A malformed case="..." never aborts the parse (spec §7): the
	// renderer treats a nil Cond as empty-false, so the false branch
	// renders instead.
	prog, err := expr.Compile(attrs["case"])
	if err != nil {
		prog = nil
	}
	trueTpl, err := Parse([]byte(attrs["true"]))
	if err != nil {
		trueTpl = &Template{Nodes: []Node{&Literal{Text: attrs["true"]}}}
	}
	falseTpl, err := Parse([]byte(attrs["false"]))
	if err != nil {
		falseTpl = &Template{Nodes: []Node{&Literal{Text: attrs["false"]}}}
	}
	return &InlineIf{
		CondSource: attrs["case"],
		Cond:       prog,
		TrueNodes:  trueTpl.Nodes,
		FalseNodes: falseTpl.Nodes,
	}, nil
}

// parseLoopOpen reads a <loop ...> opening tag's attributes up to its
// closing '>' and pushes a new loop frame.
func (p *parser) parseLoopOpen(contentStart int) error {
	closeIdx := indexUnquoted(p.data, contentStart, '>')
	if closeIdx < 0 {
		return fmt.Errorf("qentem: unterminated <loop> tag")
	}
	attrs := readAttrs(p.data[contentStart:closeIdx])
	loop := &Loop{Set: attrs["set"], Value: attrs["value"], Group: attrs["group"]}
	if sortVal, ok := attrs["sort"]; ok {
		loop.HasSort = true
		loop.SortDesc = !strings.HasPrefix(strings.ToLower(sortVal), "a")
	}

	p.top().appendChild(loop)
	p.stack = append(p.stack, &loopFrame{loop: loop})
	p.last = closeIdx + 1
	p.s.Seek(closeIdx + 1)
	return nil
}

func (p *parser) closeLoop() error {
	if len(p.stack) < 2 {
		return fmt.Errorf("qentem: unmatched </loop>")
	}
	if _, ok := p.top().(*loopFrame); !ok {
		return fmt.Errorf("qentem: </loop> does not match innermost open tag")
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

// parseIfOpen reads an <if case="..."> opening tag and pushes a new if
// frame with its first case.
func (p *parser) parseIfOpen(contentStart int) error {
	closeIdx := indexUnquoted(p.data, contentStart, '>')
	if closeIdx < 0 {
		return fmt.Errorf("qentem: unterminated <if> tag")
	}
	attrs := readAttrs(p.data[contentStart:closeIdx])
	// A malformed case="..." never aborts the parse (spec §7): the case
	// is kept with a nil Cond, which the renderer treats as empty-false
	// (never matches, but later cases/<else> still work).
	prog, err := expr.Compile(attrs["case"])
	if err != nil {
		prog = nil
	}

	ifNode := &If{Cases: []IfCase{{CondSource: attrs["case"], Cond: prog}}}
	p.top().appendChild(ifNode)
	p.stack = append(p.stack, &ifFrame{ifNode: ifNode})
	p.last = closeIdx + 1
	p.s.Seek(closeIdx + 1)
	return nil
}

// parseElse opens a new, final, unconditional case on the innermost open
// <if>. Its compiled condition is always empty (always-true), matching
// how this engine treats a trailing bare <else>.
func (p *parser) parseElse(contentStart int) error {
	closeIdx := indexUnquoted(p.data, contentStart, '>')
	if closeIdx < 0 {
		return fmt.Errorf("qentem: unterminated <else> tag")
	}
	top, ok := p.top().(*ifFrame)
	if !ok {
		return fmt.Errorf("qentem: <else> outside of an open <if>")
	}
	top.ifNode.Cases = append(top.ifNode.Cases, IfCase{Cond: &expr.Program{}})
	p.last = closeIdx + 1
	p.s.Seek(closeIdx + 1)
	return nil
}

func (p *parser) closeIf() error {
	if len(p.stack) < 2 {
		return fmt.Errorf("qentem: unmatched </if>")
	}
	if _, ok := p.top().(*ifFrame); !ok {
		return fmt.Errorf("qentem: </if> does not match innermost open tag")
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

// indexUnquoted finds the next occurrence of b at or after pos, skipping
// over single- or double-quoted attribute values so a '>' inside
// true="a>b" doesn't end the tag early.
func indexUnquoted(s string, pos int, b byte) int {
	inQuote := byte(0)
	for i := pos; i < len(s); i++ {
		c := s[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			inQuote = c
			continue
		}
		if c == b {
			return i
		}
	}
	return -1
}
