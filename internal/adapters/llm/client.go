// Package llm talks to the Gemini generateContent REST endpoint and walks
// an ordered list of model identifiers until one answers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/aithena/pkg/logger"
	"github.com/okian/aithena/pkg/metrics"
)

// DefaultBaseURL is the public Gemini API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// DefaultTimeout bounds one generation call when the caller sets no limit.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes bounds how much of an upstream reply is read.
const maxBodyBytes = 4 << 20

// Response is the text a model produced and the identifier that produced it.
type Response struct {
	Text  string
	Model string
}

// Client issues one generation call against one model identifier.
type Client interface {
	Generate(ctx context.Context, model, prompt string) (Response, error)
}

// GeminiClient implements Client over HTTP.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// Option applies a configuration option to the GeminiClient.
type Option func(*GeminiClient)

// WithBaseURL overrides the API host. Tests point this at httptest servers.
func WithBaseURL(u string) Option {
	return func(c *GeminiClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *GeminiClient) {
		c.apiKey = key
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GeminiClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *GeminiClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewGeminiClient creates a client. Without an API key every call returns
// ErrNotConfigured.
func NewGeminiClient(opts ...Option) *GeminiClient {
	c := &GeminiClient{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *GeminiClient) Configured() bool { return c.apiKey != "" }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) endpoint(model string) string {
	return c.baseURL + "/v1beta/models/" + url.PathEscape(model) + ":generateContent?key=" + url.QueryEscape(c.apiKey)
}

// Generate sends prompt to model. Any status other than 200, a transport
// failure, or a reply without candidates[0].content.parts[0].text is an
// *UpstreamError.
func (c *GeminiClient) Generate(ctx context.Context, model, prompt string) (Response, error) {
	if !c.Configured() {
		return Response{}, ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(model), bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordModelLatency(model, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordModelRequest(model, "transport")
		return Response{}, &UpstreamError{Model: model, Status: http.StatusBadGateway, Body: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordModelRequest(model, "transport")
		return Response{}, &UpstreamError{Model: model, Status: http.StatusBadGateway, Body: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RecordModelRequest(model, strconv.Itoa(resp.StatusCode))
		c.logger.Warn(ctx, "model call failed",
			logger.String("model", model),
			logger.Int("status", resp.StatusCode))
		return Response{}, &UpstreamError{Model: model, Status: resp.StatusCode, Body: string(raw)}
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil ||
		len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		metrics.RecordModelRequest(model, "bad_response")
		return Response{}, &UpstreamError{Model: model, Status: http.StatusBadGateway, Body: string(raw), Err: ErrBadResponse}
	}

	metrics.RecordModelRequest(model, "success")
	return Response{Text: out.Candidates[0].Content.Parts[0].Text, Model: model}, nil
}
