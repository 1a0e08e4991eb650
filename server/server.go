package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hupe1980/drawmatch/ingest"
	"github.com/hupe1980/drawmatch/scanner"
	"github.com/hupe1980/drawmatch/selection"
)

// ReadyLine is written once before the first query is read.
const ReadyLine = "READY"

// Matcher answers draw queries. *drawmatch.DB satisfies it.
type Matcher interface {
	Seal()
	QueryMask(ctx context.Context, draw selection.Mask) (scanner.Tally, error)
}

// Server runs the query protocol against a Matcher.
type Server struct {
	db     Matcher
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for query latencies and skipped lines.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Server for db.
func New(db Matcher, opts ...Option) *Server {
	s := &Server{
		db:     db,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve seals the database, announces readiness on out and answers the
// draws read from in until EOF (nil) or until ctx is canceled (ctx.Err()).
// Cancellation is observed between lines. A read already blocked on in is
// not interrupted; it ends when in delivers data, reaches EOF or is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.db.Seal()

	w := bufio.NewWriter(out)
	if _, err := fmt.Fprintln(w, ReadyLine); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)

	lines := newLineReader(in, done)
	for {
		line, err := lines.next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case ingest.Skippable(err):
			s.logger.DebugContext(ctx, "query skipped", "reason", err)
			continue
		case err != nil:
			return err
		}

		if err := s.answer(ctx, w, line); err != nil {
			return err
		}
	}
}

func (s *Server) answer(ctx context.Context, w *bufio.Writer, line string) error {
	draw, err := selection.ParseMask(line)
	if err != nil {
		s.logger.DebugContext(ctx, "query skipped", "reason", err)
		return nil
	}

	start := time.Now()
	t, err := s.db.QueryMask(ctx, draw)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("query %q: %w", line, err)
	}

	s.logger.InfoContext(ctx, "query",
		"draw", draw.String(),
		"duration_us", elapsed.Microseconds(),
		"duration_ms", float64(elapsed.Microseconds())/1000,
	)

	if _, err := fmt.Fprintf(w, "%d %d %d %d\n", t.Match2, t.Match3, t.Match4, t.Match5); err != nil {
		return err
	}
	return w.Flush()
}

// lineReader reads lines on a separate goroutine so that a blocked read
// does not delay cancellation. The goroutine outlives Serve while it is
// blocked in a read.
type lineReader struct {
	lines chan lineResult
}

type lineResult struct {
	line string
	err  error
}

func newLineReader(r io.Reader, done <-chan struct{}) *lineReader {
	lr := &lineReader{lines: make(chan lineResult)}
	go func() {
		src := ingest.NewLineReader(r, ingest.DefaultMaxLineBytes)
		for {
			line, err := src.Next()
			select {
			case lr.lines <- lineResult{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil && !ingest.Skippable(err) {
				return
			}
		}
	}()
	return lr
}

func (lr *lineReader) next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case res := <-lr.lines:
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
