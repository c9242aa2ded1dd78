package main

import (
	"flag"
	"fmt"

	"github.com/ughe/kami/config"
	"github.com/ughe/kami/pipeline"
	"github.com/ughe/kami/transform"
)

// settings are the flags shared by the commands that score. A flag given on
// the command line overrides the config file.
type settings struct {
	fs         *flag.FlagSet
	path       *string
	ins        *float64
	del        *float64
	sub        *float64
	percent    *bool
	truncate   *bool
	round      *string
	transforms *string
	aligner    *string
	maxCells   *int
	blockSize  *int
	workers    *int
	provider   *string
	keys       *string
}

func newSettings(fs *flag.FlagSet) *settings {
	d := config.Default()
	return &settings{
		fs:         fs,
		path:       fs.String("config", "", "YAML config file (e.g. "+config.DefaultConfigPath()+")"),
		ins:        fs.Float64("i", d.Costs.Insertion, "Insertion cost"),
		del:        fs.Float64("d", d.Costs.Deletion, "Deletion cost"),
		sub:        fs.Float64("s", d.Costs.Substitution, "Substitution cost"),
		percent:    fs.Bool("percent", d.Display.Percent, "Show rates in percent"),
		truncate:   fs.Bool("truncate", d.Display.Truncate, "Truncate rates"),
		round:      fs.String("round", d.Display.RoundDigits, "Digits kept by -truncate: 2 or .01"),
		transforms: fs.String("t", d.Transforms, "Transforms: D digits, U uppercase, L lowercase, P punctuation, X diacritics (e.g. XPD)"),
		aligner:    fs.String("aligner", d.Alignment.Aligner, "Aligner: matrix or script"),
		maxCells:   fs.Int("max-cells", d.Alignment.MaxCells, "Largest alignment matrix before texts are split in blocks (<0: no limit)"),
		blockSize:  fs.Int("block-size", d.Alignment.BlockSize, "Lines per block of a split alignment"),
		workers:    fs.Int("workers", d.Workers, "Variants scored at once (0: one per CPU)"),
		provider:   fs.String("provider", d.OCR.Provider, "OCR service transcribing the image of an XML reference"),
		keys:       fs.String("keys", d.OCR.Keys, "Path to credentials directory"),
	}
}

// load reads the config file, applies the flags that were set and checks
// the result.
func (s *settings) load() (*config.Config, error) {
	cfg := config.Default()
	if *s.path != "" {
		var err error
		if cfg, err = config.Load(*s.path); err != nil {
			return nil, err
		}
	}
	s.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.Costs.Insertion = *s.ins
		case "d":
			cfg.Costs.Deletion = *s.del
		case "s":
			cfg.Costs.Substitution = *s.sub
		case "percent":
			cfg.Display.Percent = *s.percent
		case "truncate":
			cfg.Display.Truncate = *s.truncate
		case "round":
			cfg.Display.RoundDigits = *s.round
		case "t":
			cfg.Transforms = *s.transforms
		case "aligner":
			cfg.Alignment.Aligner = *s.aligner
		case "max-cells":
			cfg.Alignment.MaxCells = *s.maxCells
		case "block-size":
			cfg.Alignment.BlockSize = *s.blockSize
		case "workers":
			cfg.Workers = *s.workers
		case "provider":
			cfg.OCR.Provider = *s.provider
		case "keys":
			cfg.OCR.Keys = *s.keys
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %v", err)
	}
	return cfg, nil
}

func pipelineOptions(cfg *config.Config) (pipeline.Options, error) {
	score, err := cfg.ScoreOptions()
	if err != nil {
		return pipeline.Options{}, err
	}
	ts, err := transform.Parse(cfg.Transforms)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{Score: score, Transforms: ts, Workers: cfg.Workers}, nil
}
