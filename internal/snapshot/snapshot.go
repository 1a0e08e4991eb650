// Package snapshot persists a sealed player database in a compact binary form.
//
// Layout (little endian):
//
//	[magic "DMSN"][version u16][compression u8][reserved u8][count u64][crc32c u32]
//	[body: count x (word0 u64, word1 u64), compressed as a single stream]
//
// The checksum covers the uncompressed body.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/drawmatch/internal/codec"
	"github.com/hupe1980/drawmatch/internal/hash"
	"github.com/hupe1980/drawmatch/selection"
)

const (
	magic      = "DMSN"
	version    = 1
	headerSize = 20
	recordSize = 16
)

// ErrCorrupt is returned when a snapshot fails validation.
var ErrCorrupt = errors.New("corrupt snapshot")

// Header describes a snapshot.
type Header struct {
	Version     uint16
	Compression codec.Compression
	Count       uint64
	Checksum    uint32
}

// Source is a set of masks that does not change while it is written.
type Source interface {
	Len() int
	Range(fn func(i int, m selection.Mask) bool)
}

// Write serializes src to w.
func Write(w io.Writer, src Source, c codec.Compression) (Header, error) {
	h := Header{
		Version:     version,
		Compression: c,
		Count:       uint64(src.Len()), //nolint:gosec // Len is never negative
		Checksum:    checksum(src),
	}

	if err := writeHeader(w, h); err != nil {
		return h, err
	}

	cw, err := codec.NewWriter(w, c)
	if err != nil {
		return h, err
	}

	bw := bufio.NewWriterSize(cw, 64*1024)
	var rec [recordSize]byte
	var werr error
	src.Range(func(_ int, m selection.Mask) bool {
		putRecord(rec[:], m)
		_, werr = bw.Write(rec[:])
		return werr == nil
	})
	if werr != nil {
		return h, werr
	}
	if err := bw.Flush(); err != nil {
		return h, err
	}
	return h, cw.Close()
}

// Read parses a snapshot from r and hands every mask to sink in order.
// An error from sink stops reading and is returned unchanged.
func Read(r io.Reader, sink func(m selection.Mask) error) (Header, error) {
	h, err := readHeader(r)
	if err != nil {
		return h, err
	}

	cr, err := codec.NewReader(r, h.Compression)
	if err != nil {
		return h, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	defer cr.Close()

	br := bufio.NewReaderSize(cr, 64*1024)
	var rec [recordSize]byte
	crc := uint32(0)
	for i := uint64(0); i < h.Count; i++ {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			return h, fmt.Errorf("%w: record %d: %w", ErrCorrupt, i, err)
		}
		crc = hash.UpdateCRC32C(crc, rec[:])
		if err := sink(getRecord(rec[:])); err != nil {
			return h, err
		}
	}

	if crc != h.Checksum {
		return h, fmt.Errorf("%w: checksum mismatch (got %08x, want %08x)", ErrCorrupt, crc, h.Checksum)
	}
	return h, nil
}

func checksum(src Source) uint32 {
	crc := uint32(0)
	var rec [recordSize]byte
	src.Range(func(_ int, m selection.Mask) bool {
		putRecord(rec[:], m)
		crc = hash.UpdateCRC32C(crc, rec[:])
		return true
	})
	return crc
}

func writeHeader(w io.Writer, h Header) error {
	var buf [headerSize]byte
	copy(buf[0:4], magic)
	binary.LittleEndian.PutUint16(buf[4:], h.Version)
	buf[6] = byte(h.Compression)
	binary.LittleEndian.PutUint64(buf[8:], h.Count)
	binary.LittleEndian.PutUint32(buf[16:], h.Checksum)
	_, err := w.Write(buf[:])
	return err
}

func readHeader(r io.Reader) (Header, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	if string(buf[0:4]) != magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrCorrupt, buf[0:4])
	}

	h := Header{
		Version:     binary.LittleEndian.Uint16(buf[4:]),
		Compression: codec.Compression(buf[6]),
		Count:       binary.LittleEndian.Uint64(buf[8:]),
		Checksum:    binary.LittleEndian.Uint32(buf[16:]),
	}
	if h.Version != version {
		return h, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, h.Version)
	}
	if _, ok := codec.ByName(h.Compression.String()); !ok {
		return h, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, buf[6])
	}
	return h, nil
}

func putRecord(dst []byte, m selection.Mask) {
	binary.LittleEndian.PutUint64(dst[0:], m[0])
	binary.LittleEndian.PutUint64(dst[8:], m[1])
}

func getRecord(src []byte) selection.Mask {
	return selection.Mask{
		binary.LittleEndian.Uint64(src[0:]),
		binary.LittleEndian.Uint64(src[8:]),
	}
}
