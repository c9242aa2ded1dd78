package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
)

const azureReadService = "AzureRead"

// https://eastus.dev.cognitive.microsoft.com/docs/services/computer-vision-v3-1-ga/
type azureReadResponse struct {
	Error               azureError             `json:"error,omitempty"`
	Status              string                 `json:"status"`
	CreatedDateTime     string                 `json:"createdDateTime"`
	LastUpdatedDateTime string                 `json:"lastUpdatedDateTime"`
	AnalyzeResult       azureReadAnalyzeResult `json:"analyzeResult"`
}

type azureError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	statusNotStarted = "notStarted"
	statusRunning    = "running"
	statusFailed     = "failed"
	statusSucceeded  = "succeeded"
)

type azureReadAnalyzeResult struct {
	Version     string            `json:"version"`
	ReadResults []azureReadResult `json:"readResults"`
}

type azureReadResult struct {
	Page   int             `json:"page"`
	Lang   string          `json:"language"`
	Angle  float64         `json:"angle"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Lines  []azureReadLine `json:"lines"`
}

type azureReadLine struct {
	Bounds [8]int          `json:"boundingBox"`
	Text   string          `json:"text"`
	Words  []azureReadWord `json:"words"`
}

type azureReadWord struct {
	Bounds [8]int  `json:"boundingBox"`
	Text   string  `json:"text"`
	Conf   float64 `json:"confidence"`
}

func (r *azureReadResponse) lines() []string {
	var lines []string
	for _, page := range r.AnalyzeResult.ReadResults {
		for _, line := range page.Lines {
			lines = append(lines, line.Text)
		}
	}
	return lines
}

// AzureReadClient calls the asynchronous Read API: the image is posted,
// then the result is polled until it is ready.
type AzureReadClient struct {
	CredentialsPath string
	// PollInterval defaults to one second.
	PollInterval time.Duration
	// MaxPolls defaults to 15.
	MaxPolls int
}

// Run returns the Azure Read API document text detection Result.
func (c AzureReadClient) Run(ctx context.Context, image []byte) (*Result, error) {
	const (
		service     = azureReadService
		uriVersion  = "vision/v3.1/read/analyze" // may differ from the version in the response
		httpTimeout = time.Second * 15
	)
	interval, maxPolls := c.PollInterval, c.MaxPolls
	if interval <= 0 {
		interval = time.Second
	}
	if maxPolls <= 0 {
		maxPolls = 15
	}

	credentialsPath := path.Join(c.CredentialsPath, azureKeyName)
	credentials, err := loadCredentials(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot read credentials: %s (%v)", service, credentialsPath, err)
	}

	client := &http.Client{Timeout: httpTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, credentials.Endpoint+uriVersion, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("%s: configuration error: %v", service, err)
	}
	req.Header.Add("Content-Type", "application/octet-stream")
	req.Header.Add("Ocp-Apim-Subscription-Key", credentials.Key)

	start := time.Now()
	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: OCR request failed - %v", service, err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("%s: received status code %v (expected 202)", service, response.StatusCode)
	}
	oploc := response.Header.Get("Operation-Location")
	if oploc == "" {
		return nil, fmt.Errorf("%s: empty Operation-Location (no results URL given)", service)
	}

	var milli int64
	var result azureReadResponse
	for i := 0; i < maxPolls && result.Status != statusSucceeded; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
		result, err = pollRead(ctx, client, oploc, credentials.Key)
		milli = int64(time.Since(start) / time.Millisecond)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", service, err)
		}
		if result.Error.Code != "" {
			return nil, fmt.Errorf("%s: request failed - code %s: %s - at url: %s", service, result.Error.Code, result.Error.Message, oploc)
		}
		if result.Status == statusFailed {
			return nil, fmt.Errorf("%s: the operation has failed at url: %s", service, oploc)
		}
	}
	if result.Status != statusSucceeded {
		return nil, fmt.Errorf("%s: timed-out waiting for a result. Last status was: %q for url: %s", service, result.Status, oploc)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &Result{
		Service:  service,
		Version:  result.AnalyzeResult.Version,
		FullText: strings.Join(result.lines(), "\n"),
		Duration: milli,
		Date:     fmtTime(start.UTC()),
		Raw:      encoded,
	}, nil
}

func pollRead(ctx context.Context, client *http.Client, url, key string) (azureReadResponse, error) {
	var result azureReadResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result, fmt.Errorf("configuration error for result url: %s (%v)", url, err)
	}
	req.Header.Add("Ocp-Apim-Subscription-Key", key)
	response, err := client.Do(req)
	if err != nil {
		return result, fmt.Errorf("OCR (result) request failed - %v", err)
	}
	defer response.Body.Close()
	responseJSON, err := io.ReadAll(response.Body)
	if err != nil {
		return result, fmt.Errorf("cannot read http response: %v", err)
	}
	if err := json.Unmarshal(responseJSON, &result); err != nil {
		return result, fmt.Errorf("cannot unmarshal json response: %v", err)
	}
	return result, nil
}

// AzureReadLines decodes the lines of a raw Azure Read response.
func AzureReadLines(raw []byte) ([]string, error) {
	var response azureReadResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, err
	}
	return response.lines(), nil
}
