package twinword

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://twinword-emotion-analysis-v1.p.rapidapi.com"
	defaultHost    = "twinword-emotion-analysis-v1.p.rapidapi.com"
)

// Client performs emotion analysis against the Twinword API on RapidAPI.
type Client interface {
	Analyze(ctx context.Context, text string) (*AnalyzeResponse, error)
}

// AnalyzeResponse is the response from POST /analyze/.
type AnalyzeResponse struct {
	Emotions  []Emotion `json:"emotions_detected"`
	Mood      string    `json:"mood"`
	Sentiment string    `json:"sentiment"`
}

// Emotion is a single detected emotion with its score.
type Emotion struct {
	Emotion string  `json:"emotion"`
	Score   float64 `json:"emotion_score"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHost overrides the RapidAPI host header.
func WithHost(host string) Option {
	return func(c *httpClient) {
		c.host = host
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	host    string
	http    *http.Client
}

// NewClient creates a Twinword emotion-analysis client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		host:    defaultHost,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Analyze(ctx context.Context, text string) (*AnalyzeResponse, error) {
	form := url.Values{}
	form.Set("text", text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "twinword: create request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("X-RapidAPI-Key", c.apiKey)
	httpReq.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "twinword: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "twinword: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("twinword: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result AnalyzeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "twinword: unmarshal response")
	}

	return &result, nil
}
