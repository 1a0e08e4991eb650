// Package container implements container data structures.
package container

import (
	"errors"
	"unsafe"
)

const (
	// segmentBits determines the size of each segment.
	// 16 bits = 65536 items per segment.
	segmentBits = 16
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

// ErrFull is returned by Append when the array holds Cap() items.
var ErrFull = errors.New("segmented array is full")

// Allocator reserves bytes before a new segment is allocated.
// A non-nil error aborts the append and is returned unchanged.
type Allocator func(bytes int64) error

// SegmentedArray is an append-only array of fixed-size segments with a hard
// capacity ceiling. Segments are allocated lazily, so memory grows with the
// number of items instead of the capacity.
//
// Appends must come from a single goroutine. Once appends stop, any number of
// goroutines may read concurrently provided the hand-over is synchronized.
type SegmentedArray[T any] struct {
	segments [][]T
	length   int
	capacity int
	alloc    Allocator
	reserved int64
}

// NewSegmentedArray creates a SegmentedArray holding at most capacity items.
// alloc may be nil.
func NewSegmentedArray[T any](capacity int, alloc Allocator) *SegmentedArray[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &SegmentedArray[T]{
		capacity: capacity,
		alloc:    alloc,
	}
}

// Append adds v at index Len().
// Returns ErrFull at capacity, or the allocator's error if a new segment
// could not be reserved.
func (sa *SegmentedArray[T]) Append(v T) error {
	if sa.length >= sa.capacity {
		return ErrFull
	}

	segIdx := sa.length >> segmentBits
	if segIdx == len(sa.segments) {
		if err := sa.grow(); err != nil {
			return err
		}
	}

	sa.segments[segIdx] = append(sa.segments[segIdx], v)
	sa.length++
	return nil
}

// grow allocates the next segment, sized to the remaining capacity.
func (sa *SegmentedArray[T]) grow() error {
	n := min(segmentSize, sa.capacity-len(sa.segments)*segmentSize)

	var zero T
	bytes := int64(n) * int64(unsafe.Sizeof(zero))
	if sa.alloc != nil {
		if err := sa.alloc(bytes); err != nil {
			return err
		}
	}

	sa.segments = append(sa.segments, make([]T, 0, n))
	sa.reserved += bytes
	return nil
}

// Get returns the item at the given index.
// Returns zero value and false if index is out of bounds.
func (sa *SegmentedArray[T]) Get(index int) (T, bool) {
	if index < 0 || index >= sa.length {
		var zero T
		return zero, false
	}
	return sa.segments[index>>segmentBits][index&segmentMask], true
}

// Len returns the number of items.
func (sa *SegmentedArray[T]) Len() int {
	return sa.length
}

// Cap returns the capacity ceiling.
func (sa *SegmentedArray[T]) Cap() int {
	return sa.capacity
}

// ReservedBytes returns the bytes reserved for allocated segments.
func (sa *SegmentedArray[T]) ReservedBytes() int64 {
	return sa.reserved
}

// Segments returns the populated segments in index order.
// Item i lives in Segments()[i>>16][i&0xFFFF]. The slices alias internal
// storage and must not be modified.
func (sa *SegmentedArray[T]) Segments() [][]T {
	return sa.segments
}

// Range calls fn for every item in index order until fn returns false.
func (sa *SegmentedArray[T]) Range(fn func(index int, v T) bool) {
	for s, seg := range sa.segments {
		base := s << segmentBits
		for i, v := range seg {
			if !fn(base+i, v) {
				return
			}
		}
	}
}
