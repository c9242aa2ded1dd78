package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/ughe/kami/ocr"
)

func saveResults(filename string, outcomes []ocr.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", o.Err)
			continue
		}
		dst := ocr.FileName(filename, o.Service)
		encoded, err := json.Marshal(o.Result)
		if err == nil {
			err = os.WriteFile(dst, encoded, 0600)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v: %v\n", dst, err)
			continue
		}
		fmt.Printf("%s:%v\n", dst, o.Result.Duration)
	}
}

// Executes OCR for each of the services on each filename. A failing
// service is reported and does not stop the others.
func ocrCommand(keys string, aws, azu, azr, gcp bool, filenames []string) error {
	m := make(map[string]ocr.Client, 4)
	for name, on := range map[string]bool{"aws": aws, "azure": azu, "azure-read": azr, "gcp": gcp} {
		if !on {
			continue
		}
		c, err := ocr.New(name, keys)
		if err != nil {
			return err
		}
		m[name] = c
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var errs []string
	for _, filename := range filenames {
		img, err := os.ReadFile(filename)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		outcomes, err := ocr.RunAll(ctx, m, img)
		if err != nil {
			return err
		}
		saveResults(filename, outcomes)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n\n"))
	}
	return nil
}

func extractCommand(filename string, stat, algoid, speed, date, text bool) error {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	var result ocr.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("%s: %v", filename, err)
	}

	switch {
	case stat:
		lines, err := result.DecodeLines()
		if err != nil {
			return err
		}
		fmt.Printf("algoid: %s:%s\n", strings.ToLower(result.Service), result.Version)
		fmt.Printf("millis: %d\n", result.Duration)
		fmt.Printf("date:   %s\n", result.Date)
		fmt.Printf("lines:  %d\n", len(lines))
	case algoid:
		fmt.Printf("%s:%s\n", strings.ToLower(result.Service), result.Version)
	case speed:
		fmt.Printf("%d\n", result.Duration)
	case date:
		fmt.Printf("%s\n", result.Date)
	case text:
		lines, err := result.DecodeLines()
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", strings.Join(lines, "\n"))
	default:
		return fmt.Errorf("Error: no flags specified")
	}
	return nil
}
