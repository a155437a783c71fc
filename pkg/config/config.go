package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration options for mccabre.
type Config struct {
	// Reporting thresholds for cyclomatic complexity
	Complexity ComplexityConfig `koanf:"complexity" toml:"complexity" json:"complexity"`

	// Clone detection settings
	Clones ClonesConfig `koanf:"clones" toml:"clones" json:"clones"`

	// File selection
	Files FilesConfig `koanf:"files" toml:"files" json:"files"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache" json:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" json:"output"`
}

// ComplexityConfig defines when a complexity score is flagged.
type ComplexityConfig struct {
	WarningThreshold int `koanf:"warning_threshold" toml:"warning_threshold" json:"warning_threshold"`
	ErrorThreshold   int `koanf:"error_threshold" toml:"error_threshold" json:"error_threshold"`
}

// ClonesConfig controls clone detection.
type ClonesConfig struct {
	Enabled   bool `koanf:"enabled" toml:"enabled" json:"enabled"`
	MinTokens int  `koanf:"min_tokens" toml:"min_tokens" json:"min_tokens"`
	Verify    bool `koanf:"verify" toml:"verify" json:"verify"`
}

// FilesConfig controls which files are analyzed.
type FilesConfig struct {
	RespectGitignore bool     `koanf:"respect_gitignore" toml:"respect_gitignore" json:"respect_gitignore"`
	Exclude          []string `koanf:"exclude" toml:"exclude" json:"exclude"`
	MaxFileSize      int64    `koanf:"max_file_size" toml:"max_file_size" json:"max_file_size"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" json:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" json:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" json:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" json:"format"` // text, json, markdown, yaml, toon
	Color  bool   `koanf:"color" toml:"color" json:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Complexity: ComplexityConfig{
			WarningThreshold: 10,
			ErrorThreshold:   20,
		},
		Clones: ClonesConfig{
			Enabled:   true,
			MinTokens: 30,
			Verify:    false,
		},
		Files: FilesConfig{
			RespectGitignore: true,
			Exclude: []string{
				"vendor/",
				"node_modules/",
				".git/",
				"*.min.js",
			},
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     ".mccabre/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Standard config file names, searched in order.
var configNames = []string{
	"mccabre.toml",
	"mccabre.yaml",
	"mccabre.yml",
	"mccabre.json",
	".mccabre.toml",
	".mccabre.yaml",
	".mccabre.yml",
	".mccabre.json",
	filepath.Join(".mccabre", "config.toml"),
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// Load loads configuration from a file, layered over the defaults.
// The file is checked against the config schema before it is applied.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := validateRaw(k.Raw()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Find returns the first standard config file present in dir, or "".
func Find(dir string) string {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	if path := Find("."); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

// LoadResult is a loaded configuration and the file it came from.
// Source is empty when defaults were used.
type LoadResult struct {
	Config *Config
	Source string
}

type loadOptions struct {
	path string
	dir  string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads from an explicit file instead of searching.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithSearchDir searches dir instead of the working directory.
func WithSearchDir(dir string) LoadOption {
	return func(o *loadOptions) {
		o.dir = dir
	}
}

// LoadConfig loads the effective configuration. Unlike LoadOrDefault, a
// config file that exists but is invalid is reported as an error.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := loadOptions{dir: "."}
	for _, opt := range opts {
		opt(&o)
	}

	path := o.path
	if path == "" {
		path = Find(o.dir)
	}
	if path == "" {
		return &LoadResult{Config: DefaultConfig()}, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}

// Validate checks value ranges that the schema cannot express.
func (c *Config) Validate() error {
	if err := validateRaw(c); err != nil {
		return err
	}
	if c.Complexity.ErrorThreshold < c.Complexity.WarningThreshold {
		return fmt.Errorf("%w: complexity.error_threshold (%d) must be >= complexity.warning_threshold (%d)",
			ErrInvalidConfig, c.Complexity.ErrorThreshold, c.Complexity.WarningThreshold)
	}
	return nil
}

// Overrides are command-line values layered over the loaded config.
// Zero values leave the config unchanged.
type Overrides struct {
	Threshold   int
	MinTokens   int
	NoGitignore bool
	Verify      bool
}

// MergeFlags applies command-line overrides in place.
func (c *Config) MergeFlags(o Overrides) {
	if o.Threshold > 0 {
		c.Complexity.WarningThreshold = o.Threshold
		if c.Complexity.ErrorThreshold < o.Threshold {
			c.Complexity.ErrorThreshold = o.Threshold
		}
	}
	if o.MinTokens > 0 {
		c.Clones.MinTokens = o.MinTokens
	}
	if o.NoGitignore {
		c.Files.RespectGitignore = false
	}
	if o.Verify {
		c.Clones.Verify = true
	}
}

// Marshal renders the config as TOML.
func (c *Config) Marshal() ([]byte, error) {
	out, err := gotoml.Marshal(*c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}

// Save writes the config as TOML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
