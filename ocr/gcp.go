package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/apiv1"
	"google.golang.org/api/option"
	pb "google.golang.org/genproto/googleapis/cloud/vision/v1"
)

const gcpService = "GCP"

type GCPClient struct {
	CredentialsPath string
}

// Run returns the GCP document text detection Result.
// Reference: https://cloud.google.com/vision/docs/apis
func (c GCPClient) Run(ctx context.Context, file []byte) (*Result, error) {
	const (
		version = "v1"
		keyName = "gcp.json"
	)

	credentialsFile := path.Join(c.CredentialsPath, keyName)
	client, err := vision.NewImageAnnotatorClient(
		ctx,
		option.WithCredentialsFile(credentialsFile),
	)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	image, err := vision.NewImageFromReader(bytes.NewReader(file))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	annotation, err := client.DetectDocumentText(ctx, image, nil)
	milli := int64(time.Since(start) / time.Millisecond)
	if err != nil {
		return nil, err
	}

	fullText := ""
	if annotation != nil {
		fullText = annotation.Text
	}

	encoded, err := json.Marshal(annotation)
	if err != nil {
		return nil, err
	}
	return &Result{
		Service:  gcpService,
		Version:  version,
		FullText: fullText,
		Duration: milli,
		Date:     fmtTime(start.UTC()),
		Raw:      encoded,
	}, nil
}

// GCPLines decodes the lines of a raw Vision response. Lines are rebuilt
// from the breaks detected after each symbol, since blocks and paragraphs
// may hold several of them.
func GCPLines(raw []byte) ([]string, error) {
	var response pb.TextAnnotation
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, err
	}
	var lines []string
	var line strings.Builder
	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()
		}
	}
	for _, p := range response.Pages {
		for _, b := range p.Blocks {
			for _, par := range b.Paragraphs {
				for _, w := range par.Words {
					for _, s := range w.Symbols {
						line.WriteString(s.Text)
						switch detectedBreak(s) {
						case pb.TextAnnotation_DetectedBreak_SPACE, pb.TextAnnotation_DetectedBreak_SURE_SPACE:
							line.WriteByte(' ')
						case pb.TextAnnotation_DetectedBreak_HYPHEN:
							line.WriteByte('-')
							flush()
						case pb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE, pb.TextAnnotation_DetectedBreak_LINE_BREAK:
							flush()
						}
					}
				}
			}
			flush()
		}
	}
	return lines, nil
}

func detectedBreak(s *pb.Symbol) pb.TextAnnotation_DetectedBreak_BreakType {
	if s.Property == nil || s.Property.DetectedBreak == nil {
		return pb.TextAnnotation_DetectedBreak_UNKNOWN
	}
	return s.Property.DetectedBreak.Type
}
