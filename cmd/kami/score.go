package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/ughe/kami/ocr"
	"github.com/ughe/kami/pipeline"
)

func scoreCommand(s *settings, args []string, image string, oneLine bool) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	opts, err := pipelineOptions(cfg)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var reference, prediction string
	if len(args) == 1 {
		if !strings.HasSuffix(args[0], "xml") {
			return fmt.Errorf("%s: expected a PAGE or ALTO .xml file, or two texts", args[0])
		}
		client, err := ocr.New(cfg.OCR.Provider, cfg.OCR.Keys)
		if err != nil {
			return err
		}
		reference, prediction, err = pipeline.FromXML(ctx, args[0], image, client)
		if err != nil {
			return err
		}
	} else {
		reference, prediction, err = pipeline.Texts(args[0], args[1])
		if err != nil {
			return err
		}
	}

	report, err := pipeline.Evaluate(ctx, reference, prediction, opts)
	if err != nil {
		return err
	}
	var out []byte
	if oneLine {
		out, err = json.Marshal(report)
	} else {
		out, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// evaluatePairs scores consecutive reference and prediction arguments.
func evaluatePairs(ctx context.Context, opts pipeline.Options, args []string) ([]entry, error) {
	entries := make([]entry, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		reference, prediction, err := pipeline.Texts(args[i], args[i+1])
		if err != nil {
			return nil, err
		}
		r, err := pipeline.Evaluate(ctx, reference, prediction, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", args[i], err)
		}
		fmt.Printf("[INFO] Scored %s against %s\n", args[i+1], args[i])
		entries = append(entries, entry{Name: args[i], Report: r})
	}
	return entries, nil
}
