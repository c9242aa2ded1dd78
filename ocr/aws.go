package ocr

import (
	"context"
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/textract"
)

const awsService = "AWS"

type AWSClient struct {
	CredentialsPath string
}

// Run returns the AWS document text detection Result.
// Reference: https://docs.aws.amazon.com/textract/
func (c AWSClient) Run(ctx context.Context, image []byte) (*Result, error) {
	const (
		keyName    = "credentials"
		configName = "config"
	)

	credentialsFile := path.Join(c.CredentialsPath, keyName)
	configFile := path.Join(c.CredentialsPath, configName)

	s, err := session.NewSessionWithOptions(
		session.Options{
			SharedConfigFiles: []string{credentialsFile, configFile},
			SharedConfigState: session.SharedConfigEnable,
		},
	)
	if err != nil {
		return nil, err
	}
	client := textract.New(s, aws.NewConfig().WithMaxRetries(3))

	start := time.Now()
	result, err := client.DetectDocumentTextWithContext(ctx, &textract.DetectDocumentTextInput{
		Document: &textract.Document{Bytes: image},
	})
	milli := int64(time.Since(start) / time.Millisecond)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &Result{
		Service:  awsService,
		Version:  aws.StringValue(result.DetectDocumentTextModelVersion),
		FullText: strings.Join(awsLines(result.Blocks), "\n"),
		Duration: milli,
		Date:     fmtTime(start.UTC()),
		Raw:      encoded,
	}, nil
}

func awsLines(blocks []*textract.Block) []string {
	var lines []string
	for _, block := range blocks {
		if aws.StringValue(block.BlockType) == textract.BlockTypeLine {
			lines = append(lines, aws.StringValue(block.Text))
		}
	}
	return lines
}

// AWSLines decodes the lines of a raw Textract response.
func AWSLines(raw []byte) ([]string, error) {
	var response textract.DetectDocumentTextOutput
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, err
	}
	return awsLines(response.Blocks), nil
}
