// Package template implements the tag tree and parser from spec §4.2: it
// turns scanner matches into a tree of Nodes, and the FileCache that
// compiles and hot-reloads template files. Grounded on the original
// engine's Tags.hpp tag-bit union, reworked as a plain Go interface +
// concrete struct per tag kind instead of a tagged-union storage cell.
package template

import "github.com/qentem-go/qentem/expr"

// Node is one piece of a parsed template: literal text or a tag.
type Node interface {
	isNode()
}

// Literal is verbatim text copied to the render output unescaped.
type Literal struct {
	Text string
}

// Variable is {var:path} — rendered HTML-escaped.
type Variable struct {
	Path string
}

// RawVariable is {raw:path} — rendered without HTML-escaping.
type RawVariable struct {
	Path string
}

// Math is {math:expr} — an arithmetic expression rendered as a number.
type Math struct {
	Source   string
	Compiled *expr.Program
}

// SuperVariable is {svar:path, child0, child1, ...} — path resolves to a
// string holding "{d}"-style positional placeholders (d = a single decimal
// digit); each placeholder is replaced by the d-th child tag's own
// rendered output. Children are themselves Variable/RawVariable/Math
// nodes, e.g. "{svar: greeting, {var:name}}". Raw preserves the original
// "{svar:...}" content verbatim, for the unresolved-path literal fallback.
type SuperVariable struct {
	Path     string
	Children []Node
	Raw      string
}

// InlineIf is {if case="expr" true="..." false="..."} — a condition with
// two branch bodies, each itself parsed as a small node list so a branch
// may contain its own inline tags (e.g. true="{var:name}").
type InlineIf struct {
	CondSource string
	Cond       *expr.Program
	TrueNodes  []Node
	FalseNodes []Node
}

// Loop is <loop set="path" value="name" group="key" sort="asc|desc">...
// </loop>: Set names the source collection, Value binds the per-item
// variable name visible in Body, Group and Sort are optional.
type Loop struct {
	Set      string
	Value    string
	Group    string
	SortDesc bool
	HasSort  bool
	Body     []Node
}

// IfCase is one <if case="expr">...</if> branch, or the trailing
// unconditional <else>...</if> branch when CondSource is empty.
type IfCase struct {
	CondSource string
	Cond       *expr.Program
	Body       []Node
}

// If is the block conditional <if case="...">...<else>...</if>.
type If struct {
	Cases []IfCase
}

func (*Literal) isNode()       {}
func (*Variable) isNode()      {}
func (*RawVariable) isNode()   {}
func (*Math) isNode()          {}
func (*SuperVariable) isNode() {}
func (*InlineIf) isNode()      {}
func (*Loop) isNode()          {}
func (*If) isNode()            {}

// Template is a parsed, ready-to-render document.
type Template struct {
	Nodes []Node
}
