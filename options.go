package drawmatch

import (
	"log/slog"

	"github.com/hupe1980/drawmatch/internal/codec"
	"github.com/hupe1980/drawmatch/scanner"
)

// Compression selects the stream codec for snapshots.
type Compression = codec.Compression

const (
	CompressionNone = codec.None
	CompressionLZ4  = codec.LZ4
	CompressionZSTD = codec.ZSTD
)

// DefaultCapacity is the default player capacity.
const DefaultCapacity = scanner.DefaultCapacity

type options struct {
	capacity         int
	parallelism      int
	memoryLimit      int64
	ioLimit          int64
	compression      Compression
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures New.
type Option func(*options)

// WithCapacity sets the maximum number of players. Loading more fails with
// ErrCapacityExceeded. Zero selects DefaultCapacity.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithParallelism sets how many goroutines scan the database per query.
// Values below 2 keep the scan sequential.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithMemoryLimit caps the bytes the player storage may reserve.
// Loading past the limit fails with ErrAllocationFailed. Zero means no limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithIOLimit throttles reads from blob stores during LoadBlob.
// Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithCodec sets the compression used by SaveSnapshot.
func WithCodec(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &drawmatch.BasicMetricsCollector{}
//	db, _ := drawmatch.New(drawmatch.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := drawmatch.NewJSONLogger(slog.LevelInfo)
//	db, _ := drawmatch.New(drawmatch.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		capacity:         DefaultCapacity,
		parallelism:      1,
		compression:      CompressionZSTD,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
