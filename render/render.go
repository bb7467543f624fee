// Package render implements the renderer from spec §4.6: it walks a
// parsed template.Template's node list and writes its output, resolving
// {var:...}/{raw:...} paths against a root value.Value plus a stack of
// <loop>-bound scopes. Grounded on the original engine's single render()
// entry point that writes literal runs between tags and dispatches per
// tag kind, reworked here as a method per Node type instead of a switch
// over a tag-bit union.
package render

import (
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/qentem-go/qentem/expr"
	"github.com/qentem-go/qentem/numconv"
	"github.com/qentem-go/qentem/template"
	"github.com/qentem-go/qentem/value"
)

// Config controls numeric formatting for {math:} and variable output.
type Config struct {
	Precision int
	Format    numconv.Format
}

// DefaultConfig matches the original engine's default of 15 significant
// digits in the Default (trim-trailing-zeros) style.
func DefaultConfig() Config {
	return Config{Precision: 15, Format: numconv.FormatDefault}
}

// Render writes tmpl's output for root to w, per spec §4.6/§7: an
// unresolvable variable, a failed {math:} evaluation, or a value the tag
// can't render falls back to the tag's own template literal rather than
// failing the whole render.
func Render(tmpl *template.Template, root value.Value, cfg Config, w io.Writer) error {
	r := &renderer{root: root, cfg: cfg, w: w}
	return r.renderNodes(tmpl.Nodes)
}

type scope struct {
	name string
	val  value.Value
}

type renderer struct {
	root   value.Value
	scopes []scope
	cfg    Config
	w      io.Writer
}

func (r *renderer) renderNodes(nodes []template.Node) error {
	for _, n := range nodes {
		if err := r.renderNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderNode(n template.Node) error {
	switch t := n.(type) {
	case *template.Literal:
		_, err := io.WriteString(r.w, t.Text)
		return err
	case *template.Variable:
		return r.renderVariable(t)
	case *template.RawVariable:
		return r.renderRawVariable(t)
	case *template.Math:
		return r.renderMath(t)
	case *template.SuperVariable:
		return r.renderSuperVariable(t)
	case *template.InlineIf:
		return r.renderInlineIf(t)
	case *template.Loop:
		return r.renderLoop(t)
	case *template.If:
		return r.renderIf(t)
	default:
		return nil
	}
}

// resolve looks up path against the innermost loop scope whose bound name
// matches its leading segment, falling back to the root value. Reuses
// value.Resolve's path-walking by wrapping the scope's value in a
// single-key synthetic object rather than duplicating path-splitting
// logic here.
func (r *renderer) resolve(path string) (value.Value, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		sc := r.scopes[i]
		if headName(path) != sc.name {
			continue
		}
		synth := value.NewObject()
		obj, _ := synth.Object()
		obj.Set(sc.name, sc.val)
		return value.Resolve(synth, path)
	}
	return value.Resolve(r.root, path)
}

func headName(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '[' {
			return path[:i]
		}
	}
	return path
}

// scalarText renders v's textual form for a string/number/bool/null
// value (escape applies HTML-escaping to strings only); handled is false
// for array/object/undefined, which the caller falls back on.
func (r *renderer) scalarText(v value.Value, escape bool) (string, bool) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.String()
		if escape {
			return html.EscapeString(s), true
		}
		return s, true
	case value.KindTrue:
		return "true", true
	case value.KindFalse:
		return "false", true
	case value.KindNull:
		return "null", true
	case value.KindUInt64, value.KindInt64, value.KindDouble:
		n, _ := v.NumericNumber()
		return r.formatNumber(n), true
	default:
		return "", false
	}
}

func (r *renderer) formatNumber(n numconv.Number) string {
	switch n.Kind {
	case numconv.Natural:
		return strconv.FormatUint(n.Natural, 10)
	case numconv.Integer:
		return strconv.FormatInt(n.Integer, 10)
	case numconv.Real:
		return numconv.FormatReal(n.Real, r.cfg.Precision, r.cfg.Format)
	default:
		return "nan"
	}
}

func (r *renderer) renderVariable(t *template.Variable) error {
	if v, ok := r.resolve(t.Path); ok {
		if s, handled := r.scalarText(v, true); handled {
			_, err := io.WriteString(r.w, s)
			return err
		}
	}
	_, err := io.WriteString(r.w, "{var:"+t.Path+"}")
	return err
}

func (r *renderer) renderRawVariable(t *template.RawVariable) error {
	if v, ok := r.resolve(t.Path); ok {
		if s, handled := r.scalarText(v, false); handled {
			_, err := io.WriteString(r.w, s)
			return err
		}
	}
	_, err := io.WriteString(r.w, "{raw:"+t.Path+"}")
	return err
}

func (r *renderer) renderMath(t *template.Math) error {
	if t.Compiled == nil {
		_, err := io.WriteString(r.w, "{math:"+t.Source+"}")
		return err
	}
	res, err := expr.Eval(t.Compiled, r.resolve)
	if err != nil {
		_, werr := io.WriteString(r.w, "{math:"+t.Source+"}")
		return werr
	}
	// Comparisons and logical operators yield a boolean Result, but §4.4
	// specifies natural 0/1 output, not "true"/"false" text.
	text := "0"
	switch {
	case res.IsBool && res.Bool:
		text = "1"
	case !res.IsBool:
		text = r.formatNumber(res.Num)
	}
	_, werr := io.WriteString(r.w, text)
	return werr
}

// renderSuperVariable resolves Path to a string, then scans it for "{d}"
// tokens (a single decimal digit), substituting each with the d-th
// child's own rendered output; everything else is HTML-escaped, matching
// how a plain {var:...} substitution treats its resolved string.
func (r *renderer) renderSuperVariable(t *template.SuperVariable) error {
	v, ok := r.resolve(t.Path)
	if ok {
		if s, isStr := v.String(); isStr {
			return r.renderSuperVariableBody(s, t.Children)
		}
	}
	_, err := io.WriteString(r.w, "{svar:"+t.Raw+"}")
	return err
}

func (r *renderer) renderSuperVariableBody(format string, children []template.Node) error {
	var plain strings.Builder
	flush := func() error {
		if plain.Len() == 0 {
			return nil
		}
		_, err := io.WriteString(r.w, html.EscapeString(plain.String()))
		plain.Reset()
		return err
	}

	for i := 0; i < len(format); i++ {
		if format[i] == '{' && i+2 < len(format) && format[i+2] == '}' &&
			format[i+1] >= '0' && format[i+1] <= '9' {
			d := int(format[i+1] - '0')
			if err := flush(); err != nil {
				return err
			}
			if d < len(children) {
				if err := r.renderNode(children[d]); err != nil {
					return err
				}
			}
			i += 2
			continue
		}
		plain.WriteByte(format[i])
	}
	return flush()
}

func (r *renderer) renderInlineIf(t *template.InlineIf) error {
	cond := false
	if t.Cond != nil {
		res, err := expr.Eval(t.Cond, r.resolve)
		cond = err == nil && res.Truthy()
	}
	if cond {
		return r.renderNodes(t.TrueNodes)
	}
	return r.renderNodes(t.FalseNodes)
}

// renderLoop resolves Set (or the root, if Set is empty), optionally
// groups and sorts it, then renders Body once per element with Value
// bound to that element (and, for object/grouped iteration, "key" bound
// to the entry's key) — the loop-item stack of spec §4.6 collapsed into
// a push/pop over r.scopes since Go's call stack already gives each
// nesting depth its own frame.
func (r *renderer) renderLoop(t *template.Loop) error {
	source := r.root
	if t.Set != "" {
		v, ok := r.resolve(t.Set)
		if !ok {
			return nil
		}
		source = v
	}

	if t.Group != "" {
		grouped, ok := source.GroupBy(t.Group)
		if !ok {
			return nil
		}
		source = grouped
	}

	if items, ok := source.Array(); ok {
		if t.HasSort {
			items = append([]value.Value(nil), items...)
			value.SortSlice(items, t.SortDesc)
		}
		for _, item := range items {
			if err := r.renderLoopBody(t, item, value.Undefined()); err != nil {
				return err
			}
		}
		return nil
	}

	if obj, ok := source.Object(); ok {
		var err error
		obj.ForEach(func(key string, val value.Value) bool {
			err = r.renderLoopBody(t, val, value.String(key))
			return err == nil
		})
		return err
	}

	return nil
}

func (r *renderer) renderLoopBody(t *template.Loop, item, key value.Value) error {
	depth := len(r.scopes)
	if t.Value != "" {
		r.scopes = append(r.scopes, scope{name: t.Value, val: item})
	}
	if !key.IsUndefined() {
		r.scopes = append(r.scopes, scope{name: "key", val: key})
	}
	err := r.renderNodes(t.Body)
	r.scopes = r.scopes[:depth]
	return err
}

func (r *renderer) renderIf(t *template.If) error {
	for _, c := range t.Cases {
		if c.Cond == nil {
			// A malformed case="..." expression degrades to empty-false:
			// this case never matches, but later cases/the render as a
			// whole are unaffected.
			continue
		}
		if c.Cond.Empty() {
			return r.renderNodes(c.Body)
		}
		res, err := expr.Eval(c.Cond, r.resolve)
		if err == nil && res.Truthy() {
			return r.renderNodes(c.Body)
		}
	}
	return nil
}
