package value

import "github.com/fxamacker/cbor/v2"

// cborEntry is the intermediate shape EncodeCBOR/DecodeCBOR marshal through:
// a plain Go value the cbor library already knows how to encode/decode
// canonically (maps preserve cbor/v2's deterministic key ordering, which we
// reconstruct back into Object's insertion order via cborEntry below).
type cborEntry struct {
	Key string      `cbor:"k"`
	Val interface{} `cbor:"v"`
}

// EncodeCBOR renders v as canonical CBOR, the way core/planfmt/canonical.go
// uses fxamacker/cbor for the teacher's own plan serialization. Objects are
// encoded as an ordered list of key/value entries so insertion order
// survives the round trip; a Ptr is dereferenced before encoding.
func EncodeCBOR(v Value) ([]byte, error) {
	opts := cbor.CanonicalEncOptions()
	em, err := opts.EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(toCBORNode(v))
}

// DecodeCBOR reverses EncodeCBOR.
func DecodeCBOR(data []byte) (Value, error) {
	var node interface{}
	if err := cbor.Unmarshal(data, &node); err != nil {
		return Undefined(), err
	}
	return fromCBORNode(node), nil
}

func toCBORNode(v Value) interface{} {
	r := v.resolve()
	switch r.kind {
	case KindUndefined:
		return nil
	case KindNull:
		return nil
	case KindTrue:
		return true
	case KindFalse:
		return false
	case KindUInt64:
		return r.u64
	case KindInt64:
		return r.i64
	case KindDouble:
		return r.f64
	case KindString:
		return r.str
	case KindArray:
		out := make([]interface{}, 0, len(r.arr))
		for _, item := range r.arr {
			out = append(out, toCBORNode(item))
		}
		return out
	case KindObject:
		entries := make([]cborEntry, 0, r.obj.Len())
		r.obj.ForEach(func(key string, val Value) bool {
			entries = append(entries, cborEntry{Key: key, Val: toCBORNode(val)})
			return true
		})
		return entries
	default:
		return nil
	}
}

func fromCBORNode(node interface{}) Value {
	switch n := node.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(n)
	case uint64:
		return UInt64(n)
	case int64:
		if n < 0 {
			return Int64(n)
		}
		return UInt64(uint64(n))
	case float64:
		return Double(n)
	case string:
		return String(n)
	case []interface{}:
		items := make([]Value, 0, len(n))
		for _, e := range n {
			items = append(items, fromCBORNode(e))
		}
		return Array(items...)
	case []cborEntry:
		obj := newObject()
		for _, e := range n {
			obj.Set(e.Key, fromCBORNode(e.Val))
		}
		return Value{kind: KindObject, obj: obj}
	default:
		return cborFromGenericMap(node)
	}
}

// cborFromGenericMap handles the case where cbor.Unmarshal decoded a
// top-level map[interface{}]interface{} instead of []cborEntry (happens
// when the bytes were produced by a generic CBOR encoder rather than
// EncodeCBOR itself); order is not recoverable there, so keys land in
// whatever order the map iterates.
func cborFromGenericMap(node interface{}) Value {
	m, ok := node.(map[interface{}]interface{})
	if !ok {
		return Undefined()
	}
	obj := newObject()
	for k, v := range m {
		ks, ok := k.(string)
		if !ok {
			continue
		}
		obj.Set(ks, fromCBORNode(v))
	}
	return Value{kind: KindObject, obj: obj}
}
