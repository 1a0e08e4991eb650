package drawmatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/drawmatch/blobstore"
	"github.com/hupe1980/drawmatch/internal/codec"
	"github.com/hupe1980/drawmatch/scanner"
	"github.com/hupe1980/drawmatch/selection"
	"github.com/hupe1980/drawmatch/testutil"
)

func loadedDB(t *testing.T, input string, opts ...Option) *DB {
	t.Helper()
	db, err := New(opts...)
	require.NoError(t, err)
	_, err = db.LoadReader(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	db.Seal()
	return db
}

func TestDB_Scenarios(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		draw  selection.Selection
		want  string
	}{
		{"jackpot", "1 2 3 4 5\n", selection.Selection{1, 2, 3, 4, 5}, "0 0 0 1"},
		{"two matches", "1 2 3 4 5\n", selection.Selection{1, 2, 6, 7, 8}, "1 0 0 0"},
		{"three of the first player", "1 2 3 4 5\n6 7 8 9 10\n", selection.Selection{1, 2, 3, 11, 12}, "0 1 0 0"},
		{"empty database", "", selection.Selection{1, 2, 3, 4, 5}, "0 0 0 0"},
		{"malformed line skipped", "1 2 3 4 5\n1 2 3\n6 7 8 9 10\n", selection.Selection{6, 7, 8, 9, 10}, "0 0 0 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := loadedDB(t, tt.input)
			got, err := db.Query(ctx, tt.draw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDB_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db, err := New()
	require.NoError(t, err)
	assert.False(t, db.Ready())

	_, err = db.Query(ctx, selection.Selection{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, ErrNotReady)
	require.ErrorIs(t, err, scanner.ErrNotReady)

	require.NoError(t, db.Load(selection.Selection{1, 2, 3, 4, 5}))
	db.Seal()
	assert.True(t, db.Ready())
	assert.Equal(t, 1, db.Len())

	require.ErrorIs(t, db.Load(selection.Selection{6, 7, 8, 9, 10}), ErrSealed)

	_, err = db.Query(ctx, selection.Selection{1, 1, 2, 3, 4})
	require.ErrorIs(t, err, ErrInvalidSelection)

	_, err = db.LoadReader(ctx, strings.NewReader("1 2 3 4 5\n"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 1, le.Line)
	require.ErrorIs(t, err, ErrSealed)
}

func TestDB_CapacityExceeded(t *testing.T) {
	db, err := New(WithCapacity(2))
	require.NoError(t, err)

	input := "1 2 3 4 5\n6 7 8 9 10\n11 12 13 14 15\n"
	stats, err := db.LoadReader(context.Background(), strings.NewReader(input))
	require.ErrorIs(t, err, ErrCapacityExceeded)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 3, le.Line)
	assert.Contains(t, le.Error(), "line 3")
	assert.Equal(t, 2, stats.Loaded)
}

func TestDB_MemoryLimit(t *testing.T) {
	// 100 players need 1600 bytes of storage.
	db, err := New(WithCapacity(100), WithMemoryLimit(1000))
	require.NoError(t, err)

	err = db.Load(selection.Selection{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, ErrAllocationFailed)
	assert.Zero(t, db.Len())

	db, err = New(WithCapacity(100), WithMemoryLimit(1600))
	require.NoError(t, err)
	require.NoError(t, db.Load(selection.Selection{1, 2, 3, 4, 5}))
	assert.Equal(t, int64(1600), db.Stats().ReservedBytes)
	assert.Equal(t, int64(1600), db.Stats().MemoryUsed)
}

func TestDB_InvalidCapacity(t *testing.T) {
	_, err := New(WithCapacity(-1))
	require.ErrorIs(t, err, scanner.ErrInvalidCapacity)
}

func TestDB_ParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(99)
	input := testutil.PlayerFile(rng.Selections(150_000))

	seq := loadedDB(t, input)
	par := loadedDB(t, input, WithParallelism(4))
	assert.Equal(t, 4, par.Stats().Parallelism)

	for _, draw := range rng.Selections(5) {
		want, err := seq.Query(ctx, draw)
		require.NoError(t, err)
		got, err := par.Query(ctx, draw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDB_Winners(t *testing.T) {
	db := loadedDB(t, "1 2 3 4 5\n6 7 8 9 10\n5 4 3 2 1\n")

	rb, err := db.Winners(selection.Selection{1, 2, 3, 4, 5}, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, rb.ToArray())

	m, ok := db.Player(1)
	require.True(t, ok)
	assert.Equal(t, "6 7 8 9 10", m.String())

	_, err = db.Winners(selection.Selection{0, 2, 3, 4, 5}, 5)
	require.ErrorIs(t, err, ErrInvalidSelection)
}

func TestDB_Snapshot(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(17)
	input := testutil.PlayerFile(rng.Selections(70_000))
	draw := rng.Selection()

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			src := loadedDB(t, input, WithCodec(c))
			want, err := src.Query(ctx, draw)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, src.SaveSnapshot(ctx, &buf))

			dst, err := New()
			require.NoError(t, err)
			require.NoError(t, dst.LoadSnapshot(ctx, &buf))
			dst.Seal()

			assert.Equal(t, src.Len(), dst.Len())
			got, err := dst.Query(ctx, draw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDB_SnapshotErrors(t *testing.T) {
	ctx := context.Background()

	loading, err := New()
	require.NoError(t, err)
	require.ErrorIs(t, loading.SaveSnapshot(ctx, io.Discard), ErrNotReady)

	sealed := loadedDB(t, "1 2 3 4 5\n", WithCodec(CompressionNone))
	require.ErrorIs(t, sealed.LoadSnapshot(ctx, strings.NewReader("")), ErrSealed)

	var buf bytes.Buffer
	require.NoError(t, sealed.SaveSnapshot(ctx, &buf))
	data := buf.Bytes()
	data[len(data)-1] ^= 0xFF

	fresh, err := New()
	require.NoError(t, err)
	require.ErrorIs(t, fresh.LoadSnapshot(ctx, bytes.NewReader(data)), ErrCorruptSnapshot)

	fresh, err = New()
	require.NoError(t, err)
	require.ErrorIs(t, fresh.LoadSnapshot(ctx, strings.NewReader("not a snapshot at all")), ErrCorruptSnapshot)
}

func TestDB_LoadBlob(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	var buf bytes.Buffer
	w, err := codec.NewWriter(&buf, codec.ZSTD)
	require.NoError(t, err)
	_, err = io.WriteString(w, "1 2 3 4 5\nnope\n6 7 8 9 10\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, store.Put(ctx, "players.txt.zst", buf.Bytes()))

	var logs bytes.Buffer
	db, err := New(WithIOLimit(1<<20), WithLogger(NewLogger(slog.NewJSONHandler(&logs, nil))))
	require.NoError(t, err)

	stats, err := db.LoadBlob(ctx, store, "players.txt.zst")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Loaded)
	assert.Equal(t, 1, stats.Skipped)
	assert.Contains(t, logs.String(), `"source":"players.txt.zst"`)

	_, err = db.LoadBlob(ctx, store, "missing.txt")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDB_MetricsAndLogging(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}

	var logs bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	db := loadedDB(t, "1 2 3 4 5\nbad line\n6 7 8 9 10\n",
		WithMetricsCollector(metrics),
		WithLogger(logger),
	)

	_, err := db.Query(ctx, selection.Selection{1, 2, 3, 4, 5})
	require.NoError(t, err)
	_, err = db.Query(ctx, selection.Selection{1, 2, 3, 4, 4})
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, int64(2), stats.LoadedPlayers)
	assert.Equal(t, int64(1), stats.SkippedLines)
	assert.Equal(t, int64(2), stats.QueryCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
	assert.GreaterOrEqual(t, stats.QueryMaxNanos, stats.QueryAvgNanos)

	out := logs.String()
	assert.Contains(t, out, `"msg":"line skipped"`)
	assert.Contains(t, out, `"line":2`)
	assert.Contains(t, out, `"msg":"load completed"`)
	assert.Contains(t, out, `"msg":"query completed"`)
	assert.Contains(t, out, `"tally":"0 0 0 1"`)
}

func TestDB_NilOptions(t *testing.T) {
	db, err := New(nil, WithLogger(nil), WithMetricsCollector(nil))
	require.NoError(t, err)
	require.NoError(t, db.Load(selection.Selection{1, 2, 3, 4, 5}))
	db.Seal()
	_, err = db.Query(context.Background(), selection.Selection{1, 2, 3, 4, 5})
	require.NoError(t, err)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	other := errors.New("other")
	assert.Equal(t, other, translateError(other))

	err := translateError(selection.ErrParse)
	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, selection.ErrParse)
}
