package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request describes one image generation.
type Request struct {
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
}

// Generator is the contract the pipeline depends on. Implementations return
// the encoded PNG bytes of the rendered image.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// Options configures the HTTP client.
type Options struct {
	// URL is the generation endpoint of the diffusion inference server.
	URL string
	// APIKey, when set, is sent as a bearer token.
	APIKey string
	// HTTPClient overrides the default client (generation is slow; the
	// default timeout is generous).
	HTTPClient *http.Client
}

// Client is an HTTP Generator. Construct it once and share it: the serving
// process owns the model and cannot run concurrent generations anyway.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a diffusion-service client.
func NewClient(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, errors.New("generate: endpoint URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Minute}
	}
	return &Client{url: opts.URL, apiKey: opts.APIKey, httpClient: httpClient}, nil
}

type generateRequest struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
}

type generateResponse struct {
	Image string `json:"image"`
	Error string `json:"error,omitempty"`
}

// Generate renders one image and returns its PNG bytes.
func (c *Client) Generate(ctx context.Context, req Request) ([]byte, error) {
	body, err := json.Marshal(generateRequest{
		Prompt:            req.Prompt,
		NegativePrompt:    req.NegativePrompt,
		Width:             req.Width,
		Height:            req.Height,
		NumInferenceSteps: InferenceSteps,
		GuidanceScale:     GuidanceScale,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call diffusion service: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("diffusion service returned %s: %s", resp.Status, excerpt(payload))
	}

	var out generateResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("diffusion service error: %s", out.Error)
	}
	if out.Image == "" {
		return nil, errors.New("diffusion service returned no image")
	}

	img, err := base64.StdEncoding.DecodeString(out.Image)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return img, nil
}

func excerpt(body []byte) string {
	const max = 256
	if len(body) > max {
		body = body[:max]
	}
	return string(bytes.TrimSpace(body))
}
