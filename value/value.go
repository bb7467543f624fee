// Package value implements the dynamic, JSON-shaped Value tree the
// template engine renders against: a tagged variant over undefined, null,
// booleans, unsigned/signed/real numbers, strings, arrays, insertion-
// ordered objects, and non-owning value pointers, per spec §3.
package value

import "github.com/qentem-go/qentem/numconv"

// Kind discriminates a Value's active variant.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindTrue
	KindFalse
	KindUInt64
	KindInt64
	KindDouble
	KindString
	KindArray
	KindObject
	KindPtr
)

// Value is a tagged variant over the payloads in spec §3. Only the field
// matching Kind is meaningful; a Value is safe to copy.
type Value struct {
	kind Kind

	u64 uint64
	i64 int64
	f64 float64
	str string
	arr []Value
	obj *Object
	ptr *Value
}

// Undefined returns the zero Value (KindUndefined).
func Undefined() Value { return Value{kind: KindUndefined} }

// Null returns a Value holding JSON null.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a Value holding a JSON boolean.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindTrue}
	}
	return Value{kind: KindFalse}
}

// UInt64 returns a Value holding an unsigned 64-bit number.
func UInt64(v uint64) Value { return Value{kind: KindUInt64, u64: v} }

// Int64 returns a Value holding a signed 64-bit number.
func Int64(v int64) Value { return Value{kind: KindInt64, i64: v} }

// Double returns a Value holding an IEEE-754 binary64 number.
func Double(v float64) Value { return Value{kind: KindDouble, f64: v} }

// String returns a Value holding an owned string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns a Value holding an ordered sequence of Values.
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// NewObject returns a Value holding a fresh, empty ordered object.
func NewObject() Value { return Value{kind: KindObject, obj: newObject()} }

// Ptr returns a non-owning reference to target. target must outlive the
// returned Value; every read through a Ptr is defined as the same
// operation applied to target, per spec §3.
func Ptr(target *Value) Value { return Value{kind: KindPtr, ptr: target} }

// Kind returns v's variant, resolving through any ValuePtr chain.
func (v Value) Kind() Kind {
	return v.resolve().kind
}

// resolve follows ValuePtr indirection transparently until it reaches a
// non-pointer Value (or an exhausted/self-referential chain, treated as
// Undefined to avoid an infinite loop on host misuse).
func (v Value) resolve() Value {
	seen := 0
	for v.kind == KindPtr {
		if v.ptr == nil || seen > 64 {
			return Undefined()
		}
		v = *v.ptr
		seen++
	}
	return v
}

// IsUndefined reports whether v (after dereferencing) is KindUndefined.
func (v Value) IsUndefined() bool { return v.resolve().kind == KindUndefined }

// IsNull reports whether v (after dereferencing) is KindNull.
func (v Value) IsNull() bool { return v.resolve().kind == KindNull }

// IsBool reports whether v (after dereferencing) is KindTrue or KindFalse.
func (v Value) IsBool() bool {
	k := v.resolve().kind
	return k == KindTrue || k == KindFalse
}

// IsString reports whether v (after dereferencing) is KindString.
func (v Value) IsString() bool { return v.resolve().kind == KindString }

// IsNumber reports whether v (after dereferencing) holds a number.
func (v Value) IsNumber() bool {
	switch v.resolve().kind {
	case KindUInt64, KindInt64, KindDouble:
		return true
	default:
		return false
	}
}

// IsArray reports whether v (after dereferencing) is KindArray.
func (v Value) IsArray() bool { return v.resolve().kind == KindArray }

// IsObject reports whether v (after dereferencing) is KindObject.
func (v Value) IsObject() bool { return v.resolve().kind == KindObject }

// Bool returns the boolean payload and whether v resolved to a boolean.
func (v Value) Bool() (bool, bool) {
	r := v.resolve()
	switch r.kind {
	case KindTrue:
		return true, true
	case KindFalse:
		return false, true
	default:
		return false, false
	}
}

// String returns the string payload and whether v resolved to a string.
func (v Value) String() (string, bool) {
	r := v.resolve()
	if r.kind != KindString {
		return "", false
	}
	return r.str, true
}

// Array returns the backing slice and whether v resolved to an array. The
// returned slice aliases v's storage; callers must not mutate it.
func (v Value) Array() ([]Value, bool) {
	r := v.resolve()
	if r.kind != KindArray {
		return nil, false
	}
	return r.arr, true
}

// Object returns the backing *Object and whether v resolved to an object.
func (v Value) Object() (*Object, bool) {
	r := v.resolve()
	if r.kind != KindObject {
		return nil, false
	}
	return r.obj, true
}

// Number returns the number payload widened to float64, and whether v
// resolved to a numeric variant.
func (v Value) Number() (float64, bool) {
	r := v.resolve()
	switch r.kind {
	case KindUInt64:
		return float64(r.u64), true
	case KindInt64:
		return float64(r.i64), true
	case KindDouble:
		return r.f64, true
	default:
		return 0, false
	}
}

// NumericNumber returns the number payload as a numconv.Number, preserving
// the Natural/Integer/Real distinction that Number's float64 widening
// loses — the expression evaluator needs it for QExpression-style
// promote-on-mix arithmetic.
func (v Value) NumericNumber() (numconv.Number, bool) {
	r := v.resolve()
	switch r.kind {
	case KindUInt64:
		return numconv.Number{Kind: numconv.Natural, Natural: r.u64}, true
	case KindInt64:
		return numconv.Number{Kind: numconv.Integer, Integer: r.i64}, true
	case KindDouble:
		return numconv.Number{Kind: numconv.Real, Real: r.f64}, true
	default:
		return numconv.Number{}, false
	}
}

// Len returns the element/key count for arrays and objects, 0 otherwise.
func (v Value) Len() int {
	r := v.resolve()
	switch r.kind {
	case KindArray:
		return len(r.arr)
	case KindObject:
		return r.obj.Len()
	default:
		return 0
	}
}
