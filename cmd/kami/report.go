package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ughe/kami/report"
)

type entry = report.Entry

func loadPairs(s *settings, args []string) ([]entry, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	opts, err := pipelineOptions(cfg)
	if err != nil {
		return nil, err
	}
	entries, err := evaluatePairs(context.Background(), opts, args)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		name := filepath.Base(entries[i].Name)
		entries[i].Name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return entries, nil
}

func reportCommand(s *settings, args []string, dst, title string) error {
	entries, err := loadPairs(s, args)
	if err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := report.PDF(f, title, entries); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("[INFO] Wrote %d page(s) to %v\n", len(entries), dst)
	return nil
}

func exploreCommand(s *settings, args []string, dir string) error {
	entries, err := loadPairs(s, args)
	if err != nil {
		return err
	}
	if err := report.Explorer(dir, entries); err != nil {
		return err
	}
	fmt.Printf("[DONE] Run: %s serve -static %s\n", filepath.Base(os.Args[0]), dir)
	return nil
}
