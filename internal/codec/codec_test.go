package codec

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("1 2 3 4 5\n17 23 45 61 90\n", 2000))

	for _, c := range []Compression{None, LZ4, ZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, c)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if c != None {
				assert.Less(t, buf.Len(), len(payload), "repetitive input compresses")
			}

			r, err := NewReader(&buf, c)
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestDetect(t *testing.T) {
	tests := map[string]Compression{
		"players.txt":      None,
		"players":          None,
		"players.txt.zst":  ZSTD,
		"s3/prefix/p.ZSTD": ZSTD,
		"players.txt.lz4":  LZ4,
		"archive.tar.gz":   None,
	}
	for name, want := range tests {
		assert.Equal(t, want, Detect(name), name)
	}
}

func TestByName(t *testing.T) {
	c, ok := ByName("ZSTD")
	require.True(t, ok)
	assert.Equal(t, ZSTD, c)

	c, ok = ByName("")
	require.True(t, ok)
	assert.Equal(t, None, c)

	_, ok = ByName("brotli")
	assert.False(t, ok)
}

func TestUnsupported(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), Compression(9))
	require.Error(t, err)
	_, err = NewWriter(io.Discard, Compression(9))
	require.Error(t, err)
	assert.Equal(t, "compression(9)", Compression(9).String())
}
