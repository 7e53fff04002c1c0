// Package config resolves menuplan settings from defaults, an optional
// JSONC file and MENUPLAN_* environment variables, in that order.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/menuplan/internal/blob"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/tailscale/hujson"
)

const (
	CacheSQLite = "sqlite"
	CacheMemory = "memory"
	CacheNone   = "none"
)

type IndexConfig struct {
	Enabled bool `json:"enabled"`
}

type Config struct {
	DBPath          string      `json:"db_path"`
	DataDir         string      `json:"data_dir"`
	CacheDriver     string      `json:"cache_driver"`
	CacheTTLSeconds int         `json:"cache_ttl_seconds"`
	BatchSize       int         `json:"batch_size"`
	Index           IndexConfig `json:"index"`
	Blob            blob.Config `json:"blob"`
	MetricsFile     string      `json:"metrics_file,omitempty"`
}

// Default returns the configuration used when nothing is overridden. It
// keeps everything under ~/.menuplan.
func Default() Config {
	home := "."
	if h, err := os.UserHomeDir(); err == nil {
		home = h
	}
	dataDir := filepath.Join(home, ".menuplan")
	return Config{
		DBPath:          filepath.Join(dataDir, "menuplan.db"),
		DataDir:         dataDir,
		CacheDriver:     CacheSQLite,
		CacheTTLSeconds: 3600,
		BatchSize:       domain.DefaultBatchSize,
		Index:           IndexConfig{Enabled: true},
		Blob:            blob.Config{Driver: blob.DriverFilesystem},
	}
}

// DefaultPath is the config file read when MENUPLAN_CONFIG is unset.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".menuplan", "config.json")
	}
	return filepath.Join(home, ".menuplan", "config.json")
}

// Load layers the config file and environment over the defaults. A
// missing file is not an error. It returns the path of the file that was
// read, or "" if none was.
func Load(getenv func(string) string) (Config, string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	path := getenv("MENUPLAN_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	loaded := ""
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := parseInto(&cfg, data); err != nil {
			return Config{}, "", fmt.Errorf("config %s: %w", path, err)
		}
		loaded = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, "", fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, "", err
	}
	cfg.fillDerived()
	return cfg, loaded, nil
}

func parseInto(cfg *Config, data []byte) error {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}
	if err := json.Unmarshal(standardized, cfg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("MENUPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("MENUPLAN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getenv("MENUPLAN_CACHE"); v != "" {
		cfg.CacheDriver = strings.ToLower(v)
	}
	if v := getenv("MENUPLAN_CACHE_TTL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MENUPLAN_CACHE_TTL_SECONDS: %w", err)
		}
		cfg.CacheTTLSeconds = n
	}
	if v := getenv("MENUPLAN_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MENUPLAN_BATCH_SIZE: %w", err)
		}
		cfg.BatchSize = n
	}
	if v := getenv("MENUPLAN_INDEX_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MENUPLAN_INDEX_ENABLED: %w", err)
		}
		cfg.Index.Enabled = b
	}
	if v := getenv("MENUPLAN_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}

	if v := getenv("MENUPLAN_BLOB_DRIVER"); v != "" {
		cfg.Blob.Driver = strings.ToLower(v)
	}
	if v := getenv("MENUPLAN_BLOB_DIR"); v != "" {
		cfg.Blob.Dir = v
	}
	if v := getenv("MENUPLAN_BLOB_S3_BUCKET"); v != "" {
		cfg.Blob.S3.Bucket = v
	}
	if v := getenv("MENUPLAN_BLOB_S3_REGION"); v != "" {
		cfg.Blob.S3.Region = v
	}
	if v := getenv("MENUPLAN_BLOB_S3_ENDPOINT"); v != "" {
		cfg.Blob.S3.Endpoint = v
	}
	if v := getenv("MENUPLAN_BLOB_S3_PATH_STYLE"); v != "" {
		cfg.Blob.S3.PathStyle = strings.EqualFold(v, "true")
	}
	if v := getenv("AWS_ACCESS_KEY_ID"); v != "" && cfg.Blob.S3.AccessKeyID == "" {
		cfg.Blob.S3.AccessKeyID = v
		cfg.Blob.S3.SecretAccessKey = getenv("AWS_SECRET_ACCESS_KEY")
	}
	return nil
}

func (c *Config) fillDerived() {
	if c.Blob.Dir == "" && c.DataDir != "" {
		c.Blob.Dir = filepath.Join(c.DataDir, "uploads")
	}
}

// SessionDir is where import sessions are kept.
func (c Config) SessionDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Validate returns every problem found, not just the first.
func (c Config) Validate() []error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, fmt.Errorf("db_path is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("data_dir is required"))
	}
	switch c.CacheDriver {
	case CacheSQLite, CacheMemory, CacheNone:
	default:
		errs = append(errs, fmt.Errorf("cache_driver: unknown driver %q", c.CacheDriver))
	}
	if c.CacheTTLSeconds <= 0 {
		errs = append(errs, fmt.Errorf("cache_ttl_seconds must be positive, got %d", c.CacheTTLSeconds))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch_size must be positive, got %d", c.BatchSize))
	}
	switch c.Blob.Driver {
	case "", blob.DriverFilesystem:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, fmt.Errorf("blob.s3.bucket is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("blob.driver: unknown driver %q", c.Blob.Driver))
	}
	return errs
}
