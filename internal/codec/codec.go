// Package codec centralizes stream compression for player files and snapshots.
//
// Compression names are stable: they appear in configuration and in the
// snapshot header, so changing them breaks existing files.
package codec

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the compression algorithm used.
type Compression uint8

const (
	// None indicates no compression.
	None Compression = 0
	// LZ4 indicates LZ4 frame compression (fast).
	LZ4 Compression = 1
	// ZSTD indicates zstd compression (better ratio).
	ZSTD Compression = 2
)

// String returns the stable name of c.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ByName returns a compression by its stable name.
// The empty string maps to None.
func ByName(name string) (Compression, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "raw":
		return None, true
	case "lz4":
		return LZ4, true
	case "zstd", "zst":
		return ZSTD, true
	default:
		return None, false
	}
}

// Detect picks the compression from a file name suffix.
// Unknown suffixes are treated as uncompressed.
func Detect(name string) Compression {
	switch strings.ToLower(path.Ext(name)) {
	case ".zst", ".zstd":
		return ZSTD
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// NewReader returns a reader that decompresses r.
// Closing it releases decoder resources but does not close r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case ZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("codec: unsupported compression %s", c)
	}
}

// NewWriter returns a writer that compresses into w.
// Close flushes the compressed stream but does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case ZSTD:
		// Level 3 balances compression ratio vs speed
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, fmt.Errorf("codec: unsupported compression %s", c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
