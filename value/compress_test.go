package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressPrunesUndefinedArrayEntries(t *testing.T) {
	v := Array(Int64(1), Undefined(), Int64(2))
	v.Compress()
	arr, ok := v.Array()
	require.True(t, ok)
	require.Len(t, arr, 2)
	assert.Equal(t, int64(1), arr[0].resolve().i64)
	assert.Equal(t, int64(2), arr[1].resolve().i64)
}

func TestCompressPrunesUndefinedObjectEntries(t *testing.T) {
	v := NewObject()
	obj, _ := v.Object()
	obj.Set("a", Int64(1))
	obj.Set("b", Undefined())
	obj.Set("c", Int64(2))

	v.Compress()
	obj, _ = v.Object()
	assert.Equal(t, 2, obj.Len())
	got, ok := obj.Get("b")
	assert.False(t, ok)
	assert.True(t, got.IsUndefined())
}

func TestCompressRecursesIntoNestedValues(t *testing.T) {
	inner := Array(Int64(1), Undefined())
	v := Array(inner)
	v.Compress()
	arr, _ := v.Array()
	require.Len(t, arr, 1)
	innerArr, _ := arr[0].Array()
	assert.Len(t, innerArr, 1)
}
