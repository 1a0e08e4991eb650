// Command drawmatch loads a player file and answers lottery draw queries on
// stdin.
//
// Usage:
//
//	drawmatch [flags] <input>
//
// input is a local path, file://path, s3://bucket/key or minio://bucket/key.
// Files ending in .zst or .lz4 are decompressed. After loading, drawmatch
// prints READY and then one line "w2 w3 w4 w5" per draw read from stdin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hupe1980/drawmatch"
	"github.com/hupe1980/drawmatch/blobstore"
	"github.com/hupe1980/drawmatch/internal/config"
	"github.com/hupe1980/drawmatch/internal/simd"
	"github.com/hupe1980/drawmatch/server"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "drawmatch: %v\n", err)
		return exitUsage
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "drawmatch: %v\n", err)
		return exitUsage
	}

	if cfg.PopcountKernel != "" {
		k, ok := simd.ParseKernel(cfg.PopcountKernel)
		if !ok {
			fmt.Fprintf(stderr, "drawmatch: unknown popcount kernel %q\n", cfg.PopcountKernel)
			return exitUsage
		}
		restore, ok := simd.UseKernel(k)
		if !ok {
			fmt.Fprintf(stderr, "drawmatch: popcount kernel %s is not available on this CPU\n", k)
			return exitUsage
		}
		defer restore()
	}

	db, err := drawmatch.New(
		drawmatch.WithCapacity(cfg.Capacity),
		drawmatch.WithParallelism(cfg.Parallelism),
		drawmatch.WithMemoryLimit(cfg.MemoryLimitBytes),
		drawmatch.WithIOLimit(cfg.IOLimitBytesPerSec),
		drawmatch.WithCodec(cfg.SnapshotCompression()),
		drawmatch.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(stderr, "drawmatch: %v\n", err)
		return exitError
	}

	if err := load(ctx, cfg, db, logger); err != nil {
		fmt.Fprintf(stderr, "drawmatch: %v\n", err)
		return exitError
	}

	stats := db.Stats()
	logger.Info("database ready",
		"players", stats.Players,
		"reserved_bytes", stats.ReservedBytes,
		"parallelism", stats.Parallelism,
		"kernel", stats.Kernel,
	)

	srv := server.New(db, server.WithLogger(logger.Logger))
	if err := srv.Serve(ctx, stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "drawmatch: %v\n", err)
		return exitError
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("drawmatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: drawmatch [flags] <input>")
		fs.PrintDefaults()
	}

	def := config.Default()
	configPath := fs.String("config", "", "path to YAML config file")
	capacity := fs.Int("capacity", def.Capacity, "maximum number of players")
	parallelism := fs.Int("parallelism", def.Parallelism, "goroutines per query scan")
	memoryLimit := fs.Int64("memory-limit", 0, "player storage limit in bytes (0 = unlimited)")
	ioLimit := fs.Int64("io-limit", 0, "input read limit in bytes per second (0 = unlimited)")
	kernel := fs.String("popcount", "", "force popcount kernel: generic or hardware")
	logLevel := fs.String("log-level", def.Logging.Level, "log level: debug, info, warn, error")
	logFormat := fs.String("log-format", def.Logging.Format, "log format: text or json")
	snapshotPath := fs.String("snapshot", "", "snapshot location; loaded instead of input when present")
	writeSnapshot := fs.Bool("write-snapshot", false, "write a snapshot after loading the input")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg.ApplyEnv(os.Getenv)

	// Explicit flags win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "capacity":
			cfg.Capacity = *capacity
		case "parallelism":
			cfg.Parallelism = *parallelism
		case "memory-limit":
			cfg.MemoryLimitBytes = *memoryLimit
		case "io-limit":
			cfg.IOLimitBytesPerSec = *ioLimit
		case "popcount":
			cfg.PopcountKernel = *kernel
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-format":
			cfg.Logging.Format = *logFormat
		case "snapshot":
			cfg.Snapshot.Path = *snapshotPath
		case "write-snapshot":
			cfg.Snapshot.Write = *writeSnapshot
		}
	})

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Input = fs.Arg(0)
	default:
		return config.Config{}, fmt.Errorf("expected one input, got %d", fs.NArg())
	}
	if cfg.Input == "" && cfg.Snapshot.Path == "" {
		fs.Usage()
		return config.Config{}, errors.New("no input given")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) (*drawmatch.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Logging.Format, "json") {
		return drawmatch.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return drawmatch.NewLogger(slog.NewTextHandler(w, opts)), nil
}

// load fills db from the snapshot when one exists, otherwise from the input,
// and seals it.
func load(ctx context.Context, cfg config.Config, db *drawmatch.DB, logger *drawmatch.Logger) error {
	start := time.Now()

	if cfg.Snapshot.Path != "" {
		restored, err := restoreSnapshot(ctx, cfg, db)
		if err != nil {
			return err
		}
		if restored {
			db.Seal()
			logger.Info("snapshot restored", "source", cfg.Snapshot.Path, "duration_ms", time.Since(start).Milliseconds())
			return nil
		}
		if cfg.Input == "" {
			return fmt.Errorf("snapshot %s not found and no input given", cfg.Snapshot.Path)
		}
	}

	src, err := parseSource(cfg.Input)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, src)
	if err != nil {
		return err
	}

	if _, err := db.LoadBlob(ctx, store, src.name); err != nil {
		return err
	}
	db.Seal()

	if cfg.Snapshot.Write {
		return writeSnapshot(ctx, cfg, db)
	}
	return nil
}

func restoreSnapshot(ctx context.Context, cfg config.Config, db *drawmatch.DB) (bool, error) {
	src, err := parseSource(cfg.Snapshot.Path)
	if err != nil {
		return false, err
	}
	store, err := openStore(ctx, cfg, src)
	if err != nil {
		return false, err
	}

	rc, _, err := blobstore.OpenReader(ctx, store, src.name)
	if errors.Is(err, blobstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer func() { _ = rc.Close() }()

	if err := db.LoadSnapshot(ctx, rc); err != nil {
		return false, fmt.Errorf("restore snapshot %s: %w", src, err)
	}
	return true, nil
}

func writeSnapshot(ctx context.Context, cfg config.Config, db *drawmatch.DB) error {
	src, err := parseSource(cfg.Snapshot.Path)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, src)
	if err != nil {
		return err
	}

	w, err := store.Create(ctx, src.name)
	if err != nil {
		return err
	}
	if err := db.SaveSnapshot(ctx, w); err != nil {
		_ = blobstore.Discard(w)
		return fmt.Errorf("write snapshot %s: %w", src, err)
	}
	if err := w.Sync(); err != nil {
		_ = blobstore.Discard(w)
		return err
	}
	return w.Close()
}
