package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareOrdersByTypeThenPayload(t *testing.T) {
	assert.Equal(t, -1, Compare(Null(), Bool(true)))
	assert.Equal(t, -1, Compare(Bool(false), Bool(true)))
	assert.Equal(t, 0, Compare(Int64(3), Double(3)))
	assert.Equal(t, -1, Compare(Int64(2), Int64(3)))
	assert.Equal(t, -1, Compare(String("a"), String("b")))
	assert.Equal(t, -1, Compare(Array(Int64(1)), Array(Int64(1), Int64(2))))
}

func TestCompareThroughPtr(t *testing.T) {
	target := Int64(5)
	assert.Equal(t, 0, Compare(Ptr(&target), Int64(5)))
}

func TestSortSliceAscendingStable(t *testing.T) {
	items := []Value{Int64(3), Int64(1), Int64(2), Int64(1)}
	SortSlice(items, false)
	var got []int64
	for _, v := range items {
		n, _ := v.resolve().i64, true
		got = append(got, n)
	}
	assert.Equal(t, []int64{1, 1, 2, 3}, got)
}

func TestSortSliceDescending(t *testing.T) {
	items := []Value{Int64(1), Int64(3), Int64(2)}
	SortSlice(items, true)
	assert.Equal(t, int64(3), items[0].resolve().i64)
	assert.Equal(t, int64(2), items[1].resolve().i64)
	assert.Equal(t, int64(1), items[2].resolve().i64)
}
