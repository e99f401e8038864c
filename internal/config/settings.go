package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/ytget/yt-fetch/internal/platform"
)

// Naming strategies for the output file
const (
	NamingTimestamp = "timestamp"
	NamingTitle     = "title"
)

// Fixed file names inside the libraries directory
const (
	DownloaderBaseName = "yt-dlp"
	MuxerBaseName      = "ffmpeg"
	MuxerArchiveName   = "ffmpeg-release.zip"
)

// Default values
const (
	DefaultFormat       = "mp4"
	DefaultQuality      = "720"
	DefaultOutputDir    = "."
	DefaultLibsDir      = "libs"
	DefaultCacheDir     = "cache"
	DefaultNaming       = NamingTimestamp
	DefaultLogLevel     = "warn"
	DefaultLogEncoding  = "console"
	DefaultTickInterval = 500 * time.Millisecond
	DefaultConfigFile   = "yt-fetch.yaml"
	DefaultEnvFile      = ".env"
)

// Environment variable names
const (
	EnvFormat       = "YTFETCH_FORMAT"
	EnvQuality      = "YTFETCH_QUALITY"
	EnvOutputDir    = "YTFETCH_OUTPUT_DIR"
	EnvLibsDir      = "YTFETCH_LIBS_DIR"
	EnvCacheDir     = "YTFETCH_CACHE_DIR"
	EnvNaming       = "YTFETCH_NAMING"
	EnvSkipDirs     = "YTFETCH_SKIP_DIRS"
	EnvLogLevel     = "YTFETCH_LOG_LEVEL"
	EnvLogEncoding  = "YTFETCH_LOG_ENCODING"
	EnvTickInterval = "YTFETCH_TICK_INTERVAL"
)

// Paths locates the directories the tool manages.
type Paths struct {
	LibsDir  string `yaml:"libs_dir"`
	CacheDir string `yaml:"cache_dir"`
}

// DownloaderPath is where yt-dlp is expected.
func (p Paths) DownloaderPath() string {
	return filepath.Join(p.LibsDir, platform.ExecutableName(DownloaderBaseName))
}

// MuxerPath is where ffmpeg is expected.
func (p Paths) MuxerPath() string {
	return filepath.Join(p.LibsDir, platform.ExecutableName(MuxerBaseName))
}

// ArchivePath is the bundled ffmpeg archive consumed on first run.
func (p Paths) ArchivePath() string {
	return filepath.Join(p.LibsDir, MuxerArchiveName)
}

// Config is the merged configuration of a run.
type Config struct {
	URL          string        `yaml:"-"`
	Format       string        `yaml:"format"`
	Quality      string        `yaml:"quality"`
	OutputDir    string        `yaml:"output_dir"`
	Paths        Paths         `yaml:",inline"`
	Naming       string        `yaml:"naming"`
	SkipDirs     []string      `yaml:"skip_dirs"`
	LogLevel     string        `yaml:"log_level"`
	LogEncoding  string        `yaml:"log_encoding"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format:    DefaultFormat,
		Quality:   DefaultQuality,
		OutputDir: DefaultOutputDir,
		Paths: Paths{
			LibsDir:  DefaultLibsDir,
			CacheDir: DefaultCacheDir,
		},
		Naming:       DefaultNaming,
		SkipDirs:     append([]string(nil), platform.DefaultSkippedDirs...),
		LogLevel:     DefaultLogLevel,
		LogEncoding:  DefaultLogEncoding,
		TickInterval: DefaultTickInterval,
	}
}

// LoadOptions points Load at optional files.
type LoadOptions struct {
	ConfigFile string // YAML file; DefaultConfigFile is tried when empty
	EnvFile    string // dotenv file; DefaultEnvFile is tried when empty
}

// Load merges defaults, the YAML file, the dotenv file and the environment,
// in that order. Files named explicitly must exist, default ones are optional.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if err := loadFile(&cfg, opts.ConfigFile); err != nil {
		return cfg, err
	}
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfigFromFile decodes a YAML file over cfg.
func LoadConfigFromFile(cfg *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.SetStrict(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return nil
}

func loadFile(cfg *Config, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	err := LoadConfigFromFile(cfg, path)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	// godotenv never overrides variables already set in the environment
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var ge getenv
	cfg.Format = ge.String(EnvFormat, cfg.Format)
	cfg.Quality = ge.String(EnvQuality, cfg.Quality)
	cfg.OutputDir = ge.String(EnvOutputDir, cfg.OutputDir)
	cfg.Paths.LibsDir = ge.String(EnvLibsDir, cfg.Paths.LibsDir)
	cfg.Paths.CacheDir = ge.String(EnvCacheDir, cfg.Paths.CacheDir)
	cfg.Naming = ge.String(EnvNaming, cfg.Naming)
	cfg.SkipDirs = ge.Strings(EnvSkipDirs, cfg.SkipDirs)
	cfg.LogLevel = ge.String(EnvLogLevel, cfg.LogLevel)
	cfg.LogEncoding = ge.String(EnvLogEncoding, cfg.LogEncoding)
	cfg.TickInterval = ge.Duration(EnvTickInterval, cfg.TickInterval)
	return ge.Err()
}

// Validate checks the values the request parser does not cover.
func (c Config) Validate() error {
	var errs []error
	if c.Paths.LibsDir == "" {
		errs = append(errs, errors.New("libs dir must not be empty"))
	}
	switch c.Naming {
	case NamingTimestamp, NamingTitle:
	default:
		errs = append(errs, fmt.Errorf("unsupported naming %q, want %s or %s", c.Naming, NamingTimestamp, NamingTitle))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %s", c.TickInterval))
	}
	return errors.Join(errs...)
}
