package scanner

import "github.com/hupe1980/drawmatch/internal/container"

// DefaultCapacity is the player ceiling used when none is configured.
const DefaultCapacity = 10_000_000

type options struct {
	capacity    int
	parallelism int
	allocator   container.Allocator
}

// Option configures a Scanner.
type Option func(*options)

// WithCapacity sets the maximum number of players.
// Zero selects DefaultCapacity.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithParallelism sets how many goroutines scan segments of the database.
// Values <= 1 keep the scan sequential.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithAllocator installs a hook that reserves memory before every new
// storage segment. A refusal makes Load fail with ErrAllocationFailed.
func WithAllocator(fn func(bytes int64) error) Option {
	return func(o *options) {
		o.allocator = fn
	}
}
