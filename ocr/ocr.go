// Package ocr obtains predictions from cloud OCR services, to be scored
// against a reference transcription.
package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type Result struct {
	Service  string `json:"service"`
	Version  string `json:"version"`
	FullText string `json:"text"`
	Duration int64  `json:"milliseconds"`
	Date     string `json:"date"`
	Raw      []byte `json:"raw"`
}

// Lines returns the non blank lines of the transcription.
func (r *Result) Lines() []string {
	var lines []string
	for _, l := range strings.Split(r.FullText, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Prediction is the transcription as scored: one line per row, each ending
// with "\n".
func (r *Result) Prediction() string {
	var sb strings.Builder
	for _, l := range r.Lines() {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DecodeLines reads the lines back from the raw response of the service.
func (r *Result) DecodeLines() ([]string, error) {
	switch r.Service {
	case awsService:
		return AWSLines(r.Raw)
	case gcpService:
		return GCPLines(r.Raw)
	case azureService:
		return AzureLines(r.Raw)
	case azureReadService:
		return AzureReadLines(r.Raw)
	}
	return nil, fmt.Errorf("ocr: service %q is not {AWS, Azure, AzureRead, GCP}", r.Service)
}

type Client interface {
	Run(ctx context.Context, image []byte) (*Result, error)
}

// Providers lists the names accepted by New.
var Providers = []string{"aws", "azure", "azure-read", "gcp"}

// New returns the client of provider, reading its credentials in keys.
func New(provider, keys string) (Client, error) {
	switch strings.ToLower(provider) {
	case "aws":
		return AWSClient{CredentialsPath: keys}, nil
	case "azure":
		return AzureClient{CredentialsPath: keys}, nil
	case "azure-read":
		return AzureReadClient{CredentialsPath: keys}, nil
	case "gcp":
		return GCPClient{CredentialsPath: keys}, nil
	}
	return nil, fmt.Errorf("ocr: unknown provider %q (expected one of %s)", provider, strings.Join(Providers, ", "))
}

// Outcome is the result of one service, or the error it returned.
type Outcome struct {
	Service string
	Result  *Result
	Err     error
}

// RunAll runs every client on image at the same time. A failing service
// does not stop the others; outcomes are sorted by service name.
func RunAll(ctx context.Context, clients map[string]Client, image []byte) ([]Outcome, error) {
	names := make([]string, 0, len(clients))
	for name := range clients {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Outcome, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			result, err := clients[name].Run(ctx, image)
			if err != nil {
				err = fmt.Errorf("%v: %w", name, err)
			}
			out[i] = Outcome{Service: name, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// FileName is where the result of service on image is saved.
func FileName(image, service string) string {
	return filepath.Base(image) + "." + service + ".json"
}

func fmtTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}
