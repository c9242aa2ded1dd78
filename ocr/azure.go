package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

const (
	azureService = "Azure"
	azureKeyName = "azure.json"
)

type azureClientCredentials struct {
	Key      string `json:"subscription_key"`
	Endpoint string `json:"endpoint"`
}

func loadCredentials(name string) (*azureClientCredentials, error) {
	f, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	credentials := &azureClientCredentials{}
	if err := json.Unmarshal(f, credentials); err != nil {
		return nil, err
	}
	if credentials.Endpoint == "" || credentials.Key == "" {
		return nil, fmt.Errorf("no 'subscription_key' or 'endpoint' in %s", name)
	}
	if !strings.HasSuffix(credentials.Endpoint, "/") {
		credentials.Endpoint += "/"
	}
	return credentials, nil
}

type azureVisionResponse struct {
	StatusCode  string        `json:"code,omitempty"`
	StatusMsg   string        `json:"message,omitempty"`
	Language    string        `json:"language"`
	Orientation string        `json:"orientation"`
	Regions     []azureRegion `json:"regions"`
}

type azureRegion struct {
	Bounds string      `json:"boundingBox"`
	Lines  []azureLine `json:"lines"`
}

type azureLine struct {
	Bounds string      `json:"boundingBox"`
	Words  []azureWord `json:"words"`
}

type azureWord struct {
	Bounds string `json:"boundingBox"`
	Text   string `json:"text"`
}

func (r *azureVisionResponse) lines() []string {
	var lines []string
	for _, region := range r.Regions {
		for _, line := range region.Lines {
			words := make([]string, len(line.Words))
			for k, word := range line.Words {
				words[k] = word.Text
			}
			lines = append(lines, strings.Join(words, " "))
		}
	}
	return lines
}

// AzureClient calls the synchronous Computer Vision OCR API.
type AzureClient struct {
	CredentialsPath string
}

// Run returns the Azure document text detection Result.
// Example: https://docs.microsoft.com/en-us/azure/cognitive-services/computer-vision/quickstarts/go-print-text
func (c AzureClient) Run(ctx context.Context, image []byte) (*Result, error) {
	const (
		uriVersion  = "vision/v2.1/ocr"
		httpTimeout = time.Second * 15
	)

	credentials, err := loadCredentials(path.Join(c.CredentialsPath, azureKeyName))
	if err != nil {
		return nil, fmt.Errorf("%s: cannot read credentials: %v", azureService, err)
	}

	url := credentials.Endpoint + uriVersion + "?language=unk&detectOrientation=false"
	client := &http.Client{Timeout: httpTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/octet-stream")
	req.Header.Add("Ocp-Apim-Subscription-Key", credentials.Key)

	start := time.Now()
	response, err := client.Do(req)
	milli := int64(time.Since(start) / time.Millisecond)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseJSON, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	result := azureVisionResponse{}
	if err := json.Unmarshal(responseJSON, &result); err != nil {
		return nil, err
	}
	if result.StatusCode != "" {
		return nil, fmt.Errorf("%v: %v", result.StatusCode, result.StatusMsg)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &Result{
		Service:  azureService,
		Version:  uriVersion,
		FullText: strings.Join(result.lines(), "\n"),
		Duration: milli,
		Date:     fmtTime(start.UTC()),
		Raw:      encoded,
	}, nil
}

// AzureLines decodes the lines of a raw Azure OCR response.
func AzureLines(raw []byte) ([]string, error) {
	var response azureVisionResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, err
	}
	return response.lines(), nil
}
