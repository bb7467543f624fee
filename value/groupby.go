package value

import "github.com/qentem-go/qentem/numconv"

// GroupBy implements the transform the original engine exposes as
// Value::GroupBy (original_source/Include/Value.hpp:1946): v must be an
// array of objects; each element has its key property extracted (converted
// to a string if necessary) and the remainder is appended into a new
// object-of-arrays keyed by that value. Fails (ok=false) if any element is
// not an object or lacks key.
func (v Value) GroupBy(key string) (Value, bool) {
	items, ok := v.Array()
	if !ok {
		return Undefined(), false
	}

	grouped := newObject()
	for _, item := range items {
		obj, ok := item.Object()
		if !ok {
			return Undefined(), false
		}
		keyVal, ok := obj.Get(key)
		if !ok {
			return Undefined(), false
		}
		groupKey, ok := toGroupKeyString(keyVal)
		if !ok {
			return Undefined(), false
		}

		rest := newObject()
		obj.ForEach(func(k string, val Value) bool {
			if k != key {
				rest.Set(k, val)
			}
			return true
		})

		existing, found := grouped.Get(groupKey)
		if !found {
			grouped.Set(groupKey, Array(Value{kind: KindObject, obj: rest}))
			continue
		}
		arr, _ := existing.Array()
		arr = append(arr, Value{kind: KindObject, obj: rest})
		grouped.Set(groupKey, Array(arr...))
	}

	return Value{kind: KindObject, obj: grouped}, true
}

func toGroupKeyString(v Value) (string, bool) {
	r := v.resolve()
	switch r.kind {
	case KindString:
		return r.str, true
	case KindUInt64:
		return uitoa(r.u64), true
	case KindInt64:
		return itoa(r.i64), true
	case KindDouble:
		return numconv.FormatReal(r.f64, 15, numconv.FormatDefault), true
	case KindTrue:
		return "true", true
	case KindFalse:
		return "false", true
	case KindNull:
		return "null", true
	default:
		return "", false
	}
}
