package render

import (
	"sort"
	"strconv"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/qentem-go/qentem/value"
)

// SuggestPath fuzzy-matches path against the object keys reachable from
// root and returns the closest one, or "" if root holds no keys to
// suggest from. Keys that hold path's letters in order are ranked by edit
// distance; when no key does, the key with the smallest edit distance is
// returned. Purely advisory — used by cmd/qentem lint to help a
// template author spot a typo'd {var:...} path, never by the renderer
// itself (spec §4.6's literal-fallback rule is unaffected). Grounded on
// the teacher's findClosestMatch helper (runtime/planner/planner.go).
func SuggestPath(path string, root value.Value) string {
	candidates := collectKeys(root, "", nil)
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(path, candidates)
	if len(ranks) == 0 {
		best, bestDist := candidates[0], fuzzy.LevenshteinDistance(path, candidates[0])
		for _, c := range candidates[1:] {
			if d := fuzzy.LevenshteinDistance(path, c); d < bestDist {
				best, bestDist = c, d
			}
		}
		return best
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// collectKeys walks root depth-first, recording the "prefix[key]"-style
// path of every object key reachable from it (array index paths are walked
// through but not recorded themselves), bounded to a modest depth so a cyclic ValuePtr
// graph (or a merely very deep one) can't run away.
func collectKeys(v value.Value, prefix string, out []string) []string {
	return collectKeysDepth(v, prefix, out, 8)
}

func collectKeysDepth(v value.Value, prefix string, out []string, depth int) []string {
	if depth <= 0 {
		return out
	}
	if obj, ok := v.Object(); ok {
		for _, k := range obj.Keys() {
			child, _ := obj.Get(k)
			full := k
			if prefix != "" {
				full = prefix + "[" + k + "]"
			}
			out = append(out, full)
			out = collectKeysDepth(child, full, out, depth-1)
		}
		return out
	}
	if arr, ok := v.Array(); ok {
		for i, child := range arr {
			full := strconv.Itoa(i)
			if prefix != "" {
				full = prefix + "[" + full + "]"
			}
			out = collectKeysDepth(child, full, out, depth-1)
		}
	}
	return out
}
