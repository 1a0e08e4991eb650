package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentedArray_AppendGet(t *testing.T) {
	sa := NewSegmentedArray[uint64](segmentSize+10, nil)

	for i := 0; i < segmentSize+10; i++ {
		require.NoError(t, sa.Append(uint64(i)*3))
	}

	assert.Equal(t, segmentSize+10, sa.Len())
	assert.Len(t, sa.Segments(), 2)
	assert.Len(t, sa.Segments()[1], 10)

	v, ok := sa.Get(segmentSize + 3)
	require.True(t, ok)
	assert.Equal(t, uint64(segmentSize+3)*3, v)

	_, ok = sa.Get(segmentSize + 10)
	assert.False(t, ok)
	_, ok = sa.Get(-1)
	assert.False(t, ok)
}

func TestSegmentedArray_Capacity(t *testing.T) {
	sa := NewSegmentedArray[int](3, nil)
	require.NoError(t, sa.Append(1))
	require.NoError(t, sa.Append(2))
	require.NoError(t, sa.Append(3))

	err := sa.Append(4)
	require.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 3, sa.Len(), "rejected item must not be stored")

	// The single segment is sized to the ceiling, not to segmentSize.
	assert.Equal(t, 3, cap(sa.Segments()[0]))
}

func TestSegmentedArray_ZeroCapacity(t *testing.T) {
	sa := NewSegmentedArray[int](0, nil)
	require.ErrorIs(t, sa.Append(1), ErrFull)
	assert.Empty(t, sa.Segments())
}

func TestSegmentedArray_Allocator(t *testing.T) {
	errNoMem := errors.New("no memory")
	var requested []int64
	budget := int64(segmentSize * 8)

	sa := NewSegmentedArray[uint64](3*segmentSize, func(bytes int64) error {
		requested = append(requested, bytes)
		if bytes > budget {
			return errNoMem
		}
		budget -= bytes
		return nil
	})

	for i := 0; i < segmentSize; i++ {
		require.NoError(t, sa.Append(uint64(i)))
	}
	assert.Equal(t, int64(segmentSize*8), sa.ReservedBytes())

	err := sa.Append(1)
	require.ErrorIs(t, err, errNoMem)
	assert.Equal(t, segmentSize, sa.Len())
	assert.Equal(t, []int64{segmentSize * 8, segmentSize * 8}, requested)
}

func TestSegmentedArray_Range(t *testing.T) {
	sa := NewSegmentedArray[int](segmentSize*2, nil)
	for i := 0; i < segmentSize+5; i++ {
		require.NoError(t, sa.Append(i))
	}

	next := 0
	sa.Range(func(i, v int) bool {
		require.Equal(t, next, i)
		require.Equal(t, i, v)
		next++
		return true
	})
	assert.Equal(t, segmentSize+5, next)

	visited := 0
	sa.Range(func(int, int) bool {
		visited++
		return visited < 10
	})
	assert.Equal(t, 10, visited)
}
