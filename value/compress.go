package value

// Compress prunes Undefined entries from v's arrays and objects
// (recursively), re-packing array indices. It mirrors
// original_source/Include/Value.hpp's Compress() (:1882); the rendering
// core never calls it (spec §9's open question resolves it as opt-in,
// host-exposed API), but it is public for hosts that build and then prune
// their own Value trees before serializing them.
func (v *Value) Compress() {
	switch v.kind {
	case KindArray:
		out := v.arr[:0]
		for _, item := range v.arr {
			if item.resolve().kind == KindUndefined {
				continue
			}
			item.Compress()
			out = append(out, item)
		}
		v.arr = out
	case KindObject:
		if v.obj == nil {
			return
		}
		compressed := newObject()
		v.obj.ForEach(func(key string, val Value) bool {
			if val.resolve().kind == KindUndefined {
				return true
			}
			val.Compress()
			compressed.Set(key, val)
			return true
		})
		v.obj = compressed
	}
}
