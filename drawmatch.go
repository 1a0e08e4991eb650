package drawmatch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/drawmatch/blobstore"
	"github.com/hupe1980/drawmatch/ingest"
	"github.com/hupe1980/drawmatch/internal/resource"
	"github.com/hupe1980/drawmatch/internal/simd"
	"github.com/hupe1980/drawmatch/internal/snapshot"
	"github.com/hupe1980/drawmatch/scanner"
	"github.com/hupe1980/drawmatch/selection"
)

// Tally holds the number of players per prize tier for one query.
type Tally = scanner.Tally

// LoadStats summarizes a load from a player file.
type LoadStats = ingest.Stats

// Stats describes the state of a DB.
type Stats struct {
	State         string
	Players       int
	Capacity      int
	ReservedBytes int64
	MemoryUsed    int64
	MemoryLimit   int64
	Parallelism   int
	Kernel        string
}

// DB is a player database that answers draw queries.
//
// It is filled during the load phase, sealed once, and then queried.
// Queries on a sealed DB are safe for concurrent use.
type DB struct {
	sc      *scanner.Scanner
	rc      *resource.Controller
	opts    options
	logger  *Logger
	metrics MetricsCollector
}

// New creates an empty DB in the load phase.
func New(optFns ...Option) (*DB, error) {
	o := applyOptions(optFns)

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   o.memoryLimit,
		IOLimitBytesPerSec: o.ioLimit,
	})

	sc, err := scanner.New(
		scanner.WithCapacity(o.capacity),
		scanner.WithParallelism(o.parallelism),
		scanner.WithAllocator(rc.Reserve),
	)
	if err != nil {
		return nil, translateError(err)
	}

	return &DB{
		sc:      sc,
		rc:      rc,
		opts:    o,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}, nil
}

// Load adds a single selection.
func (db *DB) Load(s selection.Selection) error {
	return translateError(db.sc.Load(s))
}

// LoadReader adds every well-formed line of r. Malformed lines are skipped
// and counted; capacity and allocation errors stop the load with a *LoadError.
func (db *DB) LoadReader(ctx context.Context, r io.Reader) (LoadStats, error) {
	return db.loadReader(ctx, r, db.logger)
}

func (db *DB) loadReader(ctx context.Context, r io.Reader, logger *Logger) (LoadStats, error) {
	start := time.Now()

	stats, err := ingest.Load(ctx, r, db.sc, ingest.WithOnSkip(func(line int, err error) {
		db.metrics.RecordSkip()
		logger.LogSkip(ctx, line, err)
	}))
	err = translateError(err)

	elapsed := time.Since(start)
	db.metrics.RecordLoad(stats.Loaded, stats.Skipped, elapsed, err)
	logger.LogLoad(ctx, stats, elapsed, err)
	return stats, err
}

// LoadBlob loads the named player file from store. Compression is detected
// from the name suffix; reads honor the configured IO limit.
func (db *DB) LoadBlob(ctx context.Context, store blobstore.BlobStore, name string) (LoadStats, error) {
	rc, err := ingest.Open(ctx, store, name, ingest.WithController(db.rc))
	if err != nil {
		return LoadStats{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	return db.loadReader(ctx, rc, db.logger.WithSource(name))
}

// Seal ends the load phase. It is idempotent.
func (db *DB) Seal() {
	db.sc.Seal()
}

// Ready reports whether the DB is sealed and accepts queries.
func (db *DB) Ready() bool {
	return db.sc.Ready()
}

// Len returns the number of loaded players.
func (db *DB) Len() int {
	return db.sc.Len()
}

// Query counts the players matching 2, 3, 4 and 5 numbers of draw.
func (db *DB) Query(ctx context.Context, draw selection.Selection) (Tally, error) {
	m, err := selection.Encode(draw)
	if err != nil {
		err = translateError(err)
		db.metrics.RecordQuery(0, err)
		return Tally{}, err
	}
	return db.QueryMask(ctx, m)
}

// QueryMask is like Query for an encoded draw.
func (db *DB) QueryMask(ctx context.Context, draw selection.Mask) (Tally, error) {
	start := time.Now()

	t, err := db.sc.QueryContext(ctx, draw)
	err = translateError(err)

	elapsed := time.Since(start)
	db.metrics.RecordQuery(elapsed, err)
	db.logger.LogQuery(ctx, t, elapsed, err)
	return t, err
}

// Winners returns the indices, in load order, of players with exactly
// matches numbers in common with draw.
func (db *DB) Winners(draw selection.Selection, matches int) (*roaring.Bitmap, error) {
	m, err := selection.Encode(draw)
	if err != nil {
		return nil, translateError(err)
	}
	rb, err := db.sc.Winners(m, matches)
	return rb, translateError(err)
}

// Player returns the selection stored at index i.
func (db *DB) Player(i int) (selection.Mask, bool) {
	return db.sc.Player(i)
}

// SaveSnapshot writes the sealed player database to w using the configured
// codec.
func (db *DB) SaveSnapshot(ctx context.Context, w io.Writer) error {
	if !db.Ready() {
		return ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	h, err := snapshot.Write(w, db.sc, db.opts.compression)
	db.logger.LogSnapshot(ctx, "save", int(h.Count), err) //nolint:gosec // bounded by capacity
	return translateError(err)
}

// LoadSnapshot restores players written by SaveSnapshot. The DB must still
// be in the load phase; it is not sealed afterwards. On error the DB may hold
// a prefix of the snapshot and should be discarded.
func (db *DB) LoadSnapshot(ctx context.Context, r io.Reader) error {
	if db.Ready() {
		return ErrSealed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	h, err := snapshot.Read(r, func(m selection.Mask) error {
		if !m.Valid() {
			return fmt.Errorf("%w: invalid player record %s", snapshot.ErrCorrupt, m)
		}
		return db.sc.LoadMask(m)
	})
	err = translateError(err)
	db.logger.LogSnapshot(ctx, "load", int(h.Count), err) //nolint:gosec // bounded by capacity
	return err
}

// Stats returns a point-in-time description of the DB.
func (db *DB) Stats() Stats {
	return Stats{
		State:         db.sc.State().String(),
		Players:       db.sc.Len(),
		Capacity:      db.sc.Cap(),
		ReservedBytes: db.sc.ReservedBytes(),
		MemoryUsed:    db.rc.Reserved(),
		MemoryLimit:   db.rc.Limit(),
		Parallelism:   db.sc.Parallelism(),
		Kernel:        simd.ActiveKernel().String(),
	}
}
