// Package config loads the drawmatch command configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/hupe1980/drawmatch/internal/codec"
	"github.com/hupe1980/drawmatch/scanner"
)

// Config captures all runtime options of the drawmatch command.
type Config struct {
	Input              string         `yaml:"input"`
	Capacity           int            `yaml:"capacity"`
	Parallelism        int            `yaml:"parallelism"`
	MemoryLimitBytes   int64          `yaml:"memory_limit_bytes"`
	IOLimitBytesPerSec int64          `yaml:"io_limit_bytes_per_sec"`
	PopcountKernel     string         `yaml:"popcount_kernel"`
	Logging            Logging        `yaml:"logging"`
	Snapshot           SnapshotConfig `yaml:"snapshot"`
	S3                 S3Config       `yaml:"s3"`
	MinIO              MinIOConfig    `yaml:"minio"`
}

// Logging controls the stderr logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SnapshotConfig controls the binary snapshot of the player database.
// When Path exists it is loaded instead of the input; when Write is set a
// snapshot is written to Path after a text load.
type SnapshotConfig struct {
	Path        string `yaml:"path"`
	Write       bool   `yaml:"write"`
	Compression string `yaml:"compression"`
}

// S3Config configures s3:// sources.
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// MinIOConfig configures minio:// sources.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Secure    bool   `yaml:"secure"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Capacity:    scanner.DefaultCapacity,
		Parallelism: 1,
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Snapshot: SnapshotConfig{
			Compression: "zstd",
		},
		MinIO: MinIOConfig{
			Endpoint: "localhost:9000",
		},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv fills unset MinIO credentials from MINIO_ACCESS_KEY and
// MINIO_SECRET_KEY.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.MinIO.AccessKey == "" {
		c.MinIO.AccessKey = getenv("MINIO_ACCESS_KEY")
	}
	if c.MinIO.SecretKey == "" {
		c.MinIO.SecretKey = getenv("MINIO_SECRET_KEY")
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Capacity < 0 {
		errs = append(errs, fmt.Errorf("capacity must not be negative, got %d", c.Capacity))
	}
	if c.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism))
	}
	if c.MemoryLimitBytes < 0 {
		errs = append(errs, fmt.Errorf("memory_limit_bytes must not be negative, got %d", c.MemoryLimitBytes))
	}
	if c.IOLimitBytesPerSec < 0 {
		errs = append(errs, fmt.Errorf("io_limit_bytes_per_sec must not be negative, got %d", c.IOLimitBytesPerSec))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	if _, ok := codec.ByName(c.Snapshot.Compression); !ok {
		errs = append(errs, fmt.Errorf("snapshot.compression %q is not supported", c.Snapshot.Compression))
	}
	if c.Snapshot.Write && c.Snapshot.Path == "" {
		errs = append(errs, errors.New("snapshot.write requires snapshot.path"))
	}
	return errors.Join(errs...)
}

// LogLevel parses Logging.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// SnapshotCompression returns the parsed snapshot codec.
func (c Config) SnapshotCompression() codec.Compression {
	comp, _ := codec.ByName(c.Snapshot.Compression)
	return comp
}
