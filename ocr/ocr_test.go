package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/textract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pb "google.golang.org/genproto/googleapis/cloud/vision/v1"
)

func TestResultLines(t *testing.T) {
	r := &Result{FullText: "Six semaines\n\n  \nplus tard"}
	assert.Equal(t, []string{"Six semaines", "plus tard"}, r.Lines())
	assert.Equal(t, "Six semaines\nplus tard\n", r.Prediction())
	assert.Empty(t, (&Result{}).Prediction())

	_, err := (&Result{Service: "Tesseract"}).DecodeLines()
	assert.Error(t, err)
}

func TestAWSLines(t *testing.T) {
	out := textract.DetectDocumentTextOutput{
		DetectDocumentTextModelVersion: aws.String("1.0"),
		Blocks: []*textract.Block{
			{BlockType: aws.String(textract.BlockTypePage)},
			{BlockType: aws.String(textract.BlockTypeLine), Text: aws.String("Six semaines")},
			{BlockType: aws.String(textract.BlockTypeWord), Text: aws.String("Six")},
			{BlockType: aws.String(textract.BlockTypeLine), Text: aws.String("plus tard")},
		},
	}
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	lines, err := (&Result{Service: awsService, Raw: raw}).DecodeLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"Six semaines", "plus tard"}, lines)
}

func symbols(word string, last pb.TextAnnotation_DetectedBreak_BreakType) []*pb.Symbol {
	var out []*pb.Symbol
	for _, r := range word {
		out = append(out, &pb.Symbol{Text: string(r)})
	}
	if last != pb.TextAnnotation_DetectedBreak_UNKNOWN {
		out[len(out)-1].Property = &pb.TextAnnotation_TextProperty{
			DetectedBreak: &pb.TextAnnotation_DetectedBreak{Type: last},
		}
	}
	return out
}

func TestGCPLines(t *testing.T) {
	ann := pb.TextAnnotation{
		Text: "Six semaines\nplus tard\n",
		Pages: []*pb.Page{{Blocks: []*pb.Block{{Paragraphs: []*pb.Paragraph{{Words: []*pb.Word{
			{Symbols: symbols("Six", pb.TextAnnotation_DetectedBreak_SPACE)},
			{Symbols: symbols("semaines", pb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE)},
			{Symbols: symbols("plus", pb.TextAnnotation_DetectedBreak_SPACE)},
			{Symbols: symbols("tard", pb.TextAnnotation_DetectedBreak_UNKNOWN)},
		}}}}}}},
	}
	raw, err := json.Marshal(&ann)
	require.NoError(t, err)
	lines, err := (&Result{Service: gcpService, Raw: raw}).DecodeLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"Six semaines", "plus tard"}, lines)
}

func TestAzureLines(t *testing.T) {
	raw := []byte(`{"language":"fr","regions":[{"lines":[
		{"words":[{"text":"Six"},{"text":"semaines"}]},
		{"words":[{"text":"plus"},{"text":"tard"}]}]}]}`)
	lines, err := (&Result{Service: azureService, Raw: raw}).DecodeLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"Six semaines", "plus tard"}, lines)
}

func writeAzureKeys(t *testing.T, endpoint string) string {
	dir := t.TempDir()
	keys, err := json.Marshal(azureClientCredentials{Key: "secret", Endpoint: endpoint})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, azureKeyName), keys, 0600))
	return dir
}

func TestAzureRead(t *testing.T) {
	var polls int32
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/vision/v3.1/read/analyze", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("Ocp-Apim-Subscription-Key"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "image", string(body))
		w.Header().Set("Operation-Location", srv.URL+"/operations/1")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/operations/1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) < 2 {
			fmt.Fprint(w, `{"status":"running"}`)
			return
		}
		fmt.Fprint(w, `{"status":"succeeded","analyzeResult":{"version":"3.1.0","readResults":[
			{"page":1,"lines":[{"text":"Six semaines"},{"text":"plus tard"}]}]}}`)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	c := AzureReadClient{CredentialsPath: writeAzureKeys(t, srv.URL), PollInterval: time.Millisecond}
	result, err := c.Run(context.Background(), []byte("image"))
	require.NoError(t, err)
	assert.Equal(t, azureReadService, result.Service)
	assert.Equal(t, "3.1.0", result.Version)
	assert.Equal(t, "Six semaines\nplus tard", result.FullText)
	assert.Equal(t, int32(2), atomic.LoadInt32(&polls))

	lines, err := result.DecodeLines()
	require.NoError(t, err)
	assert.Equal(t, result.Lines(), lines)
}

func TestAzureReadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	c := AzureReadClient{CredentialsPath: writeAzureKeys(t, srv.URL)}
	_, err := c.Run(context.Background(), nil)
	assert.Error(t, err)

	_, err = AzureReadClient{CredentialsPath: t.TempDir()}.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestLoadCredentials(t *testing.T) {
	dir := writeAzureKeys(t, "https://example.cognitiveservices.azure.com")
	c, err := loadCredentials(filepath.Join(dir, azureKeyName))
	require.NoError(t, err)
	assert.Equal(t, "https://example.cognitiveservices.azure.com/", c.Endpoint)

	dir = writeAzureKeys(t, "")
	_, err = loadCredentials(filepath.Join(dir, azureKeyName))
	assert.Error(t, err)
}

type fakeClient struct {
	text string
	err  error
}

func (c fakeClient) Run(ctx context.Context, image []byte) (*Result, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &Result{Service: "fake", FullText: c.text + string(image)}, nil
}

func TestRunAll(t *testing.T) {
	boom := errors.New("boom")
	out, err := RunAll(context.Background(), map[string]Client{
		"b": fakeClient{text: "second "},
		"a": fakeClient{text: "first "},
		"c": fakeClient{err: boom},
	}, []byte("page"))
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Service)
	assert.Equal(t, "first page", out[0].Result.FullText)
	assert.Equal(t, "second page", out[1].Result.FullText)
	assert.True(t, errors.Is(out[2].Err, boom))
	assert.Nil(t, out[2].Result)
}

func TestNew(t *testing.T) {
	for _, p := range Providers {
		c, err := New(p, "/keys")
		require.NoError(t, err, p)
		assert.NotNil(t, c)
	}
	c, err := New("GCP", "/keys")
	require.NoError(t, err)
	assert.Equal(t, GCPClient{CredentialsPath: "/keys"}, c)
	_, err = New("tesseract", "/keys")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "folio.jpg.gcp.json", FileName("/data/folio.jpg", "gcp"))
}
