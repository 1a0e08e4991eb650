package ingest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/drawmatch/selection"
)

// ErrLineTooLong is returned by LineReader.Next for a line longer than the
// limit. It wraps selection.ErrParse, so the line is Skippable.
var ErrLineTooLong = fmt.Errorf("%w: line too long", selection.ErrParse)

// LineReader splits a stream into lines of bounded length. Overlong lines are
// consumed and reported without ending the stream.
type LineReader struct {
	br  *bufio.Reader
	max int
}

// NewLineReader returns a LineReader accepting lines of up to maxLineBytes,
// excluding the terminator. A non-positive limit uses DefaultMaxLineBytes.
func NewLineReader(r io.Reader, maxLineBytes int) *LineReader {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &LineReader{
		br:  bufio.NewReaderSize(r, maxLineBytes+1),
		max: maxLineBytes,
	}
}

// Next returns the next line without its "\n". A final line without a
// terminator is returned as well. At the end of input Next returns io.EOF.
func (lr *LineReader) Next() (string, error) {
	line, err := lr.br.ReadSlice('\n')
	switch {
	case err == nil:
		return lr.accept(bytes.TrimSuffix(line, []byte("\n")))
	case errors.Is(err, bufio.ErrBufferFull):
		if err := lr.discardLine(); err != nil {
			return "", err
		}
		return "", ErrLineTooLong
	case errors.Is(err, io.EOF) && len(line) > 0:
		return lr.accept(line)
	default:
		return "", err
	}
}

// accept enforces the limit for buffers larger than requested; bufio never
// shrinks below its minimum size.
func (lr *LineReader) accept(line []byte) (string, error) {
	if len(line) > lr.max {
		return "", ErrLineTooLong
	}
	return string(line), nil
}

// discardLine drops input up to and including the next "\n" or EOF.
func (lr *LineReader) discardLine() error {
	for {
		_, err := lr.br.ReadSlice('\n')
		switch {
		case err == nil, errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			return err
		}
	}
}
