// Package groq implements the hosted chat-completion backend. The wire
// format is the OpenAI-compatible /v1/chat/completions contract that Groq
// and llama.cpp servers both speak.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tkaric/postgen/pkg/client"
	"github.com/tkaric/postgen/pkg/payload"
)

// DefaultBaseURL is the Groq OpenAI-compatible API root.
const DefaultBaseURL = "https://api.groq.com/openai"

const requestTimeout = 60 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Message is an OpenAI-compatible chat message. Content is a string for
// text-only messages or []ContentPart when an image is attached.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// NewClient creates a client for an OpenAI-compatible endpoint. An empty
// baseURL falls back to the Groq API; apiKey may be empty for local servers
// that do not authenticate.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// Chat sends one user prompt, optionally with an attached base64 JPEG, and
// returns the model's text reply.
func (c *Client) Chat(ctx context.Context, model, prompt, imgB64 string) (string, error) {
	// The hosted endpoint always authenticates; refuse before dialing.
	if c.apiKey == "" && c.baseURL == DefaultBaseURL {
		return "", fmt.Errorf("%w: no API key configured", client.ErrAuth)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, requestTimeout)
		defer cancel()
	}

	var content interface{} = prompt
	if imgB64 != "" {
		content = []ContentPart{
			{Type: "text", Text: prompt},
			{
				Type: "image_url",
				ImageURL: &ImageURL{
					URL: payload.DataURL(imgB64),
				},
			},
		}
	}

	req := ChatCompletionRequest{
		Model: model,
		Messages: []Message{
			{Role: "user", Content: content},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
		Stream:      false,
	}

	respBody, err := c.sendRequest(ctx, "/v1/chat/completions", req)
	if err != nil {
		return "", err
	}

	var resp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", client.ErrBadResponse, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", client.ErrBadResponse)
	}

	text := extractText(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: no text content", client.ErrBadResponse)
	}

	return text, nil
}

func (c *Client) sendRequest(ctx context.Context, endpoint string, reqPayload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d: %s", client.ErrAuth, resp.StatusCode, string(body))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d: %s", client.ErrUnavailable, resp.StatusCode, string(body))
	}

	return body, nil
}

// extractText handles both string and content-part array reply formats.
func extractText(content interface{}) string {
	switch v := content.(type) {
	case string:
		return v
	case []interface{}:
		for _, item := range v {
			if partMap, ok := item.(map[string]interface{}); ok {
				if text, ok := partMap["text"].(string); ok && text != "" {
					return text
				}
			}
		}
	}
	return ""
}
