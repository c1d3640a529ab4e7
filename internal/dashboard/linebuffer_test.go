package dashboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineBuffer_PushAndOrder(t *testing.T) {
	b := NewLineBuffer(3)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 3, b.Cap())

	b.Push("a")
	b.Push("b")
	assert.Equal(t, []string{"a", "b"}, b.Slice(0, 10))

	b.Push("c")
	b.Push("d")
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []string{"b", "c", "d"}, b.Slice(0, 3))
	assert.Equal(t, "b", b.At(0))
	assert.Equal(t, "d", b.At(2))
}

func TestLineBuffer_Wraparound(t *testing.T) {
	b := NewLineBuffer(4)
	for i := 0; i < 11; i++ {
		b.Push(fmt.Sprint(i))
	}
	assert.Equal(t, []string{"7", "8", "9", "10"}, b.Slice(0, 4))
	assert.Equal(t, []string{"8", "9"}, b.Slice(1, 3))
}

func TestLineBuffer_SliceClamps(t *testing.T) {
	b := NewLineBuffer(5)
	b.Push("x")
	b.Push("y")

	assert.Equal(t, []string{"x", "y"}, b.Slice(-3, 99))
	assert.Nil(t, b.Slice(2, 5))
	assert.Nil(t, b.Slice(1, 1))
}

func TestLineBuffer_AtOutOfRange(t *testing.T) {
	b := NewLineBuffer(2)
	assert.Panics(t, func() { b.At(0) })
	b.Push("x")
	assert.Panics(t, func() { b.At(1) })
	assert.Panics(t, func() { b.At(-1) })
}

func TestLineBuffer_DefaultCapacity(t *testing.T) {
	assert.Equal(t, 1000, NewLineBuffer(0).Cap())
}
