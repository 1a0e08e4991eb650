package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/drawmatch/internal/container"
	"github.com/hupe1980/drawmatch/internal/simd"
	"github.com/hupe1980/drawmatch/selection"
)

// State is the lifecycle state of a Scanner.
type State uint32

const (
	// Loading accepts Load calls and rejects queries.
	Loading State = iota
	// Ready rejects Load calls and serves queries.
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// maxCapacity keeps player indices representable in a roaring bitmap.
const maxCapacity = 1<<32 - 1

// Scanner owns the player database and answers match queries against it.
type Scanner struct {
	players     *container.SegmentedArray[selection.Mask]
	parallelism int
	state       atomic.Uint32
}

// New creates an empty Scanner in the Loading state.
func New(optFns ...Option) (*Scanner, error) {
	opts := options{
		capacity:    DefaultCapacity,
		parallelism: 1,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.capacity < 0 || int64(opts.capacity) > maxCapacity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, opts.capacity)
	}
	if opts.capacity == 0 {
		opts.capacity = DefaultCapacity
	}

	return &Scanner{
		players:     container.NewSegmentedArray[selection.Mask](opts.capacity, opts.allocator),
		parallelism: max(opts.parallelism, 1),
	}, nil
}

// Load encodes s and appends it to the database.
func (sc *Scanner) Load(s selection.Selection) error {
	m, err := selection.Encode(s)
	if err != nil {
		return err
	}
	return sc.LoadMask(m)
}

// LoadMask appends an already encoded selection to the database.
func (sc *Scanner) LoadMask(m selection.Mask) error {
	if sc.State() != Loading {
		return ErrSealed
	}
	if !m.Valid() {
		return fmt.Errorf("%w: mask has %d bits set", selection.ErrInvalidSelection, m.Count())
	}

	if err := sc.players.Append(m); err != nil {
		if errors.Is(err, container.ErrFull) {
			return fmt.Errorf("%w: limit is %d players", ErrCapacityExceeded, sc.players.Cap())
		}
		return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	return nil
}

// Seal ends the load phase. It is idempotent.
func (sc *Scanner) Seal() {
	sc.state.Store(uint32(Ready))
}

// State returns the current lifecycle state.
func (sc *Scanner) State() State {
	return State(sc.state.Load())
}

// Ready reports whether the database is sealed.
func (sc *Scanner) Ready() bool {
	return sc.State() == Ready
}

// Len returns the number of loaded players.
func (sc *Scanner) Len() int {
	return sc.players.Len()
}

// Cap returns the player capacity.
func (sc *Scanner) Cap() int {
	return sc.players.Cap()
}

// ReservedBytes returns the bytes held by the database storage.
func (sc *Scanner) ReservedBytes() int64 {
	return sc.players.ReservedBytes()
}

// Parallelism returns the configured number of scan goroutines.
func (sc *Scanner) Parallelism() int {
	return sc.parallelism
}

// Query counts players per prize tier for draw.
func (sc *Scanner) Query(draw selection.Mask) (Tally, error) {
	return sc.QueryContext(context.Background(), draw)
}

// QueryContext is like Query. The context is only consulted before the scan
// starts; a started scan always runs to completion.
func (sc *Scanner) QueryContext(ctx context.Context, draw selection.Mask) (Tally, error) {
	if err := sc.checkQuery(ctx, draw); err != nil {
		return Tally{}, err
	}

	var h simd.Histogram
	sc.histogram(draw, &h)
	return tallyFromHistogram(&h), nil
}

func (sc *Scanner) checkQuery(ctx context.Context, draw selection.Mask) error {
	if !sc.Ready() {
		return ErrNotReady
	}
	if !draw.Valid() {
		return fmt.Errorf("%w: draw has %d bits set", selection.ErrInvalidSelection, draw.Count())
	}
	return ctx.Err()
}

// histogram fills h with the match count distribution for draw.
func (sc *Scanner) histogram(draw selection.Mask, h *simd.Histogram) {
	segments := sc.players.Segments()

	if sc.parallelism <= 1 || len(segments) <= 1 {
		for _, seg := range segments {
			simd.MatchHistogram(seg, draw, h)
		}
		return
	}

	partials := make([]simd.Histogram, len(segments))

	var g errgroup.Group
	g.SetLimit(sc.parallelism)
	for i, seg := range segments {
		g.Go(func() error {
			simd.MatchHistogram(seg, draw, &partials[i])
			return nil
		})
	}
	_ = g.Wait() // shards cannot fail

	for i := range partials {
		h.Add(&partials[i])
	}
}

// Winners returns the indices of players with exactly matches numbers in
// common with draw.
func (sc *Scanner) Winners(draw selection.Mask, matches int) (*roaring.Bitmap, error) {
	if matches < 0 || matches > selection.Size {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMatches, matches)
	}
	if err := sc.checkQuery(context.Background(), draw); err != nil {
		return nil, err
	}

	rb := roaring.New()
	sc.players.Range(func(i int, m selection.Mask) bool {
		if m.Matches(draw) == matches {
			rb.Add(uint32(i)) //nolint:gosec // capacity <= maxCapacity
		}
		return true
	})
	return rb, nil
}

// Player returns the mask stored at index i.
func (sc *Scanner) Player(i int) (selection.Mask, bool) {
	return sc.players.Get(i)
}

// Range calls fn for every player in load order until fn returns false.
func (sc *Scanner) Range(fn func(i int, m selection.Mask) bool) {
	sc.players.Range(fn)
}
