package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ughe/kami/editdist"
	"github.com/ughe/kami/metrics"
	"github.com/ughe/kami/ocr"
	"github.com/ughe/kami/transform"
)

// Config holds the scoring, OCR and server settings.
type Config struct {
	Costs      CostsConfig     `yaml:"costs"`
	Display    DisplayConfig   `yaml:"display"`
	Alignment  AlignmentConfig `yaml:"alignment"`
	Transforms string          `yaml:"transforms"` // e.g. "XPD"
	Workers    int             `yaml:"workers"`    // 0 means one per CPU
	OCR        OCRConfig       `yaml:"ocr"`
	Serve      ServeConfig     `yaml:"serve"`
}

// CostsConfig weights each kind of edit.
type CostsConfig struct {
	Insertion    float64 `yaml:"insertion"`
	Deletion     float64 `yaml:"deletion"`
	Substitution float64 `yaml:"substitution"`
}

// DisplayConfig sets how rates are presented.
type DisplayConfig struct {
	Percent  bool `yaml:"percent"`
	Truncate bool `yaml:"truncate"`
	// RoundDigits is either a digit count ("2") or a step (".01").
	RoundDigits string `yaml:"round_digits"`
}

// AlignmentConfig selects the aligner and its limits.
type AlignmentConfig struct {
	Aligner   string `yaml:"aligner"` // "matrix" or "script"
	MaxCells  int    `yaml:"max_cells"`
	BlockSize int    `yaml:"block_size"`
}

// OCRConfig selects the prediction provider.
type OCRConfig struct {
	Provider string `yaml:"provider"`
	Keys     string `yaml:"keys"`
}

// ServeConfig holds the HTTP API settings.
type ServeConfig struct {
	Addr           string   `yaml:"addr"`
	Static         string   `yaml:"static"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kami", "config.yaml")
}

// Default returns a Config with the default values.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Costs: CostsConfig{Insertion: 1, Deletion: 1, Substitution: 1},
		Display: DisplayConfig{
			RoundDigits: ".01",
		},
		Alignment: AlignmentConfig{
			Aligner:   "matrix",
			MaxCells:  editdist.DefaultMaxCells,
			BlockSize: editdist.DefaultBlockSize,
		},
		OCR: OCRConfig{
			Provider: "gcp",
			Keys:     filepath.Join(home, ".aws"),
		},
		Serve: ServeConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. Tilde (~) in paths is expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.OCR.Keys = expandTilde(cfg.OCR.Keys)
	cfg.Serve.Static = expandTilde(cfg.Serve.Static)

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if _, err := c.costs(); err != nil {
		return fmt.Errorf("costs: %w", err)
	}

	if _, err := metrics.ParseRoundDigits(c.Display.RoundDigits); err != nil {
		return fmt.Errorf("display.round_digits: %w", err)
	}

	if _, err := editdist.New(c.Alignment.Aligner, c.Alignment.MaxCells); err != nil {
		return fmt.Errorf("alignment.aligner: %w", err)
	}

	if c.Alignment.BlockSize <= 0 {
		return fmt.Errorf("alignment.block_size must be > 0")
	}

	if _, err := transform.Parse(c.Transforms); err != nil {
		return fmt.Errorf("transforms: %w", err)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	if _, err := ocr.New(c.OCR.Provider, c.OCR.Keys); err != nil {
		return fmt.Errorf("ocr.provider: %w", err)
	}

	if c.Serve.Addr == "" {
		return fmt.Errorf("serve.addr must not be empty")
	}

	return nil
}

func (c *Config) costs() (editdist.Costs, error) {
	return editdist.NewCosts(c.Costs.Insertion, c.Costs.Deletion, c.Costs.Substitution)
}

// ScoreOptions builds the metrics options described by c.
func (c *Config) ScoreOptions() (metrics.Options, error) {
	opts := metrics.DefaultOptions()
	costs, err := c.costs()
	if err != nil {
		return opts, err
	}
	digits, err := metrics.ParseRoundDigits(c.Display.RoundDigits)
	if err != nil {
		return opts, err
	}
	aligner, err := editdist.New(c.Alignment.Aligner, c.Alignment.MaxCells)
	if err != nil {
		return opts, err
	}
	opts.Costs = costs
	opts.Presentation = metrics.Presentation{
		Percent:  c.Display.Percent,
		Truncate: c.Display.Truncate,
		Digits:   digits,
	}
	opts.Aligner = aligner
	opts.BlockSize = c.Alignment.BlockSize
	return opts, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
