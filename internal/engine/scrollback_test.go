package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rowOf(ch byte) ScrollbackRow {
	var r ScrollbackRow
	r[0] = Cell{Ch: ch, Fg: DefaultColor, Bg: DefaultColor}
	return r
}

func TestScrollbackGrowsUpToCapacity(t *testing.T) {
	sb := NewScrollback(ScrollbackSize)
	assert.Equal(t, 0, sb.Len())

	sb.Push(rowOf('a'))
	assert.Equal(t, 1, sb.Len())
	assert.Equal(t, byte('a'), sb.At(0)[0].Ch)
}

func TestScrollbackRingRotatesWhenFull(t *testing.T) {
	sb := NewScrollback(ScrollbackSize)
	for i := 0; i < ScrollbackSize; i++ {
		sb.Push(rowOf(byte('a' + i%26)))
	}
	assert.Equal(t, ScrollbackSize, sb.Len())
	oldest := sb.At(0)[0].Ch

	sb.Push(rowOf('Z'))
	assert.Equal(t, ScrollbackSize, sb.Len(), "pushing past capacity retires the oldest row, length stays capped")
	assert.NotEqual(t, oldest, sb.At(0)[0].Ch, "the previously-oldest row has rotated out")
	assert.Equal(t, byte('Z'), sb.At(ScrollbackSize-1)[0].Ch, "the new row lands at the newest slot")
}

func TestNewScrollbackHonorsCustomCapacity(t *testing.T) {
	sb := NewScrollback(4)
	assert.Equal(t, 4, sb.Cap())

	for i := 0; i < 6; i++ {
		sb.Push(rowOf(byte('a' + i)))
	}
	assert.Equal(t, 4, sb.Len())
	assert.Equal(t, byte('c'), sb.At(0)[0].Ch, "capacity 4 retains only the 4 most recent pushes")
}

func TestNewScrollbackNonPositiveFallsBackToDefault(t *testing.T) {
	sb := NewScrollback(0)
	assert.Equal(t, ScrollbackSize, sb.Cap())
}

func TestScrollbackAtIsOldestFirst(t *testing.T) {
	sb := NewScrollback(ScrollbackSize)
	sb.Push(rowOf('1'))
	sb.Push(rowOf('2'))
	sb.Push(rowOf('3'))
	assert.Equal(t, byte('1'), sb.At(0)[0].Ch)
	assert.Equal(t, byte('2'), sb.At(1)[0].Ch)
	assert.Equal(t, byte('3'), sb.At(2)[0].Ch)
}
