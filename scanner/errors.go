package scanner

import "errors"

var (
	// ErrCapacityExceeded is returned by Load when the database is full.
	ErrCapacityExceeded = errors.New("player database capacity exceeded")

	// ErrAllocationFailed is returned by Load when storage for the next
	// segment cannot be reserved.
	ErrAllocationFailed = errors.New("player database allocation failed")

	// ErrNotReady is returned by queries issued before Seal.
	ErrNotReady = errors.New("player database is still loading")

	// ErrSealed is returned by Load after Seal.
	ErrSealed = errors.New("player database is sealed")

	// ErrInvalidMatches is returned by Winners for a match count outside
	// [0, selection.Size].
	ErrInvalidMatches = errors.New("invalid match count")

	// ErrInvalidCapacity is returned by New for a negative capacity.
	ErrInvalidCapacity = errors.New("invalid capacity")
)
