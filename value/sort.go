package value

import "sort"

// typeRank orders Kinds for cross-type comparisons, matching the original
// engine's "compare by type, then payload" policy (spec §4.7).
func (k Kind) typeRank() int {
	switch k {
	case KindUndefined, KindNull:
		return 0
	case KindFalse:
		return 1
	case KindTrue:
		return 2
	case KindUInt64, KindInt64, KindDouble:
		return 3
	case KindString:
		return 4
	case KindArray:
		return 5
	case KindObject:
		return 6
	default:
		return 7
	}
}

// Compare orders a and b: by type first (ValuePtr transparently
// dereferenced), then by payload — object/array by size, string
// lexicographically, numbers by value. Returns -1, 0, or 1.
func Compare(a, b Value) int {
	ra, rb := a.resolve(), b.resolve()

	rankA, rankB := ra.kind.typeRank(), rb.kind.typeRank()
	if rankA != rankB {
		if rankA < rankB {
			return -1
		}
		return 1
	}

	switch ra.kind {
	case KindUInt64, KindInt64, KindDouble:
		na, _ := ra.Number()
		nb, _ := rb.Number()
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	case KindString:
		switch {
		case ra.str < rb.str:
			return -1
		case ra.str > rb.str:
			return 1
		default:
			return 0
		}
	case KindArray:
		return compareInt(len(ra.arr), len(rb.arr))
	case KindObject:
		return compareInt(ra.obj.Len(), rb.obj.Len())
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortSlice sorts items in place, ascending unless descending is true.
// Equal elements retain their relative order (stable), matching the need
// for reproducible loop output (spec §8 invariant 2).
func SortSlice(items []Value, descending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		c := Compare(items[i], items[j])
		if descending {
			return c > 0
		}
		return c < 0
	})
}
