package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/drawmatch/blobstore"
	"github.com/hupe1980/drawmatch/internal/codec"
	"github.com/hupe1980/drawmatch/internal/resource"
	"github.com/hupe1980/drawmatch/selection"
)

const (
	// DefaultMaxLineBytes bounds the length of a single input line.
	DefaultMaxLineBytes = 64 * 1024

	// ctxCheckInterval is how many lines are read between context checks.
	ctxCheckInterval = 4096
)

// Sink receives parsed selections.
type Sink interface {
	Load(s selection.Selection) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(s selection.Selection) error

// Load calls f(s).
func (f SinkFunc) Load(s selection.Selection) error { return f(s) }

// Stats summarizes a load.
type Stats struct {
	Lines   int
	Loaded  int
	Skipped int
}

// LineError is a load-stopping error tied to an input line (1-based).
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Skippable reports whether err only disqualifies a single line.
func Skippable(err error) bool {
	return errors.Is(err, selection.ErrParse) || errors.Is(err, selection.ErrInvalidSelection)
}

type options struct {
	onSkip       func(line int, err error)
	maxLineBytes int
	compression  codec.Compression
	autoDetect   bool
	controller   *resource.Controller
}

// Option configures Load and Open.
type Option func(*options)

// WithOnSkip registers a callback for every skipped line.
func WithOnSkip(fn func(line int, err error)) Option {
	return func(o *options) { o.onSkip = fn }
}

// WithMaxLineBytes sets the longest accepted line. Longer lines are skipped
// with ErrLineTooLong.
func WithMaxLineBytes(n int) Option {
	return func(o *options) { o.maxLineBytes = n }
}

// WithCompression disables suffix detection in Open and uses c instead.
func WithCompression(c codec.Compression) Option {
	return func(o *options) {
		o.compression = c
		o.autoDetect = false
	}
}

// WithController throttles raw reads in Open by the controller's IO limit.
func WithController(rc *resource.Controller) Option {
	return func(o *options) { o.controller = rc }
}

func newOptions(optFns []Option) options {
	o := options{
		maxLineBytes: DefaultMaxLineBytes,
		autoDetect:   true,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Load reads r line by line and passes every well-formed selection to sink.
// It returns the stats gathered so far together with any stopping error.
func Load(ctx context.Context, r io.Reader, sink Sink, optFns ...Option) (Stats, error) {
	o := newOptions(optFns)

	var stats Stats

	lr := NewLineReader(r, o.maxLineBytes)

	for {
		line, err := lr.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil && !Skippable(err) {
			return stats, &LineError{Line: stats.Lines + 1, Err: err}
		}
		stats.Lines++

		if stats.Lines%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}

		if err == nil {
			var s selection.Selection
			if s, err = selection.Parse(line); err == nil {
				err = sink.Load(s)
			}
		}

		switch {
		case err == nil:
			stats.Loaded++
		case Skippable(err):
			stats.Skipped++
			if o.onSkip != nil {
				o.onSkip(stats.Lines, err)
			}
		default:
			return stats, &LineError{Line: stats.Lines, Err: err}
		}
	}
}

// Open returns a line stream over the named blob. The compression is taken
// from the name suffix unless WithCompression is given.
func Open(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (io.ReadCloser, error) {
	o := newOptions(optFns)

	raw, _, err := blobstore.OpenReader(ctx, store, name)
	if err != nil {
		return nil, err
	}

	src := o.controller.Throttle(ctx, raw)

	c := o.compression
	if o.autoDetect {
		c = codec.Detect(name)
	}

	dec, err := codec.NewReader(src, c)
	if err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return &stream{ReadCloser: dec, raw: raw}, nil
}

type stream struct {
	io.ReadCloser
	raw io.Closer
}

func (s *stream) Close() error {
	err := s.ReadCloser.Close()
	if cerr := s.raw.Close(); err == nil {
		err = cerr
	}
	return err
}
