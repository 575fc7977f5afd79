package btle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRing_PushAdvancesOffset(t *testing.T) {
	r := NewRing()
	assert.Equal(t, 0, r.Offset())

	r.Push([]int32{1, 2, 3, 4})
	assert.Equal(t, 4, r.Offset())
	assert.Equal(t, int32(1), r.At(0))
	assert.Equal(t, int32(4), r.At(3))
}

func TestRing_PushWrapsAtLenBuf(t *testing.T) {
	r := NewRing()
	scalars := make([]int32, LenBuf)
	for i := range scalars {
		scalars[i] = int32(i)
	}
	r.Push(scalars)
	assert.Equal(t, 0, r.Offset(), "a full-length push should wrap the offset back to zero")

	r.Push([]int32{99})
	assert.Equal(t, 1, r.Offset())
	assert.Equal(t, int32(99), r.At(0))
}

func TestRing_RefreshOverlapCopiesPrefix(t *testing.T) {
	r := NewRing()
	scalars := make([]int32, LenBufMaxNumPhySample)
	for i := range scalars {
		scalars[i] = int32(i + 1)
	}
	r.Push(scalars)
	r.RefreshOverlap()

	for i := 0; i < LenBufMaxNumPhySample; i++ {
		assert.Equal(t, r.At(i), r.At(LenBuf+i), "overlap slot must mirror the buffer prefix at index %d", i)
	}
}

func TestRing_WindowReturnsContiguousSlice(t *testing.T) {
	r := NewRing()
	r.Push([]int32{10, 20, 30})
	w := r.Window(0, 3)
	assert.Equal(t, []int32{10, 20, 30}, w)
}

func TestRing_PushNeverPanicsOnArbitraryInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRing()
		n := rapid.IntRange(0, 3*LenBuf).Draw(t, "n")
		scalars := make([]int32, n)
		for i := range scalars {
			scalars[i] = rapid.Int32().Draw(t, "v")
		}
		r.Push(scalars)
		assert.GreaterOrEqual(t, r.Offset(), 0)
		assert.Less(t, r.Offset(), LenBuf)
	})
}
