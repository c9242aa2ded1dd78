package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ughe/kami/editdist"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Costs != (CostsConfig{1, 1, 1}) {
		t.Errorf("Costs = %+v, want unit costs", cfg.Costs)
	}
	if cfg.Display.RoundDigits != ".01" {
		t.Errorf("Display.RoundDigits = %q, want %q", cfg.Display.RoundDigits, ".01")
	}
	if cfg.Alignment.BlockSize != editdist.DefaultBlockSize {
		t.Errorf("Alignment.BlockSize = %d, want %d", cfg.Alignment.BlockSize, editdist.DefaultBlockSize)
	}
	if cfg.Transforms != "" {
		t.Errorf("Transforms = %q, want none", cfg.Transforms)
	}
}

func TestLoad(t *testing.T) {
	yamlContent := `
costs:
  insertion: 0.5
  deletion: 2
display:
  percent: true
  truncate: true
  round_digits: ".001"
alignment:
  aligner: script
  block_size: 10
transforms: XPD
ocr:
  provider: azure-read
  keys: ~/keys
`
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Costs.Insertion != 0.5 || cfg.Costs.Deletion != 2 {
		t.Errorf("Costs = %+v, want insertion 0.5 and deletion 2", cfg.Costs)
	}
	if cfg.Costs.Substitution != 1 {
		t.Errorf("Costs.Substitution = %v, want default 1", cfg.Costs.Substitution)
	}
	if cfg.Alignment.MaxCells != editdist.DefaultMaxCells {
		t.Errorf("Alignment.MaxCells = %d, want default %d", cfg.Alignment.MaxCells, editdist.DefaultMaxCells)
	}
	if strings.HasPrefix(cfg.OCR.Keys, "~") {
		t.Errorf("OCR.Keys = %q, want tilde expanded", cfg.OCR.Keys)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Serve.Addr = %q, want default :8080", cfg.Serve.Addr)
	}

	opts, err := cfg.ScoreOptions()
	if err != nil {
		t.Fatalf("ScoreOptions() error = %v", err)
	}
	if opts.Presentation.Digits != 3 || !opts.Presentation.Percent || !opts.Presentation.Truncate {
		t.Errorf("Presentation = %+v, want percent, truncated to 3 digits", opts.Presentation)
	}
	if _, ok := opts.Aligner.(editdist.Script); !ok {
		t.Errorf("Aligner = %T, want editdist.Script", opts.Aligner)
	}
	if opts.BlockSize != 10 {
		t.Errorf("BlockSize = %d, want 10", opts.BlockSize)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("costs: [1, 2"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("Load() of invalid YAML should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative cost", func(c *Config) { c.Costs.Deletion = -1 }},
		{"bad round digits", func(c *Config) { c.Display.RoundDigits = ".02" }},
		{"unknown aligner", func(c *Config) { c.Alignment.Aligner = "greedy" }},
		{"zero block size", func(c *Config) { c.Alignment.BlockSize = 0 }},
		{"unknown transform", func(c *Config) { c.Transforms = "XZ" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"unknown provider", func(c *Config) { c.OCR.Provider = "tesseract" }},
		{"empty addr", func(c *Config) { c.Serve.Addr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() should fail")
			}
		})
	}

	cfg := Default()
	cfg.Costs.Insertion = -2
	if _, err := cfg.ScoreOptions(); !errors.Is(err, editdist.ErrInvalidCost) {
		t.Errorf("ScoreOptions() error = %v, want ErrInvalidCost", err)
	}
}
