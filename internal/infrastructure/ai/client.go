package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"smart-hr/internal/config"

	"github.com/google/uuid"
)

var (
	ErrNotConfigured = errors.New("ai api key not configured")
	ErrEmptyResponse = errors.New("empty ai response")
)

// Client talks to any OpenAI-compatible chat/completions and embeddings
// endpoint (OpenAI, Groq, a local gateway).
type Client struct {
	cfg        config.AIConfig
	httpClient *http.Client
	logger     *log.Logger
}

func NewClient(cfg config.AIConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.cfg.APIKey) != ""
}

// CompleteJSON asks for a JSON object and returns the message content with
// any markdown fences removed.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) ([]byte, error) {
	content, err := c.complete(ctx, system, user, true)
	if err != nil {
		return nil, err
	}
	return []byte(CleanJSON(content)), nil
}

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, system, user, false)
}

func (c *Client) complete(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	rid := uuid.NewString()
	start := time.Now()

	messages := make([]map[string]any, 0, 2)
	if system != "" {
		messages = append(messages, map[string]any{"role": "system", "content": system})
	}
	messages = append(messages, map[string]any{"role": "user", "content": user})

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": 0.2,
		"messages":    messages,
	}
	if jsonMode {
		body["response_format"] = map[string]any{"type": "json_object"}
	}

	raw, err := c.post(ctx, c.endpoint("/chat/completions"), body)
	if err != nil {
		c.logger.Printf("[AI] completion failed rid=%s model=%s elapsed=%s err=%v", rid, c.cfg.Model, time.Since(start).Round(time.Millisecond), err)
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Printf("[AI] completion ok rid=%s model=%s json=%t chars=%d elapsed=%s", rid, c.cfg.Model, jsonMode, len(content), time.Since(start).Round(time.Millisecond))
	return content, nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	raw, err := c.post(ctx, c.endpoint("/embeddings"), map[string]any{
		"model": c.cfg.EmbeddingModel,
		"input": text,
	})
	if err != nil {
		return nil, err
	}

	var er struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &er); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}
	if len(er.Data) == 0 || len(er.Data[0].Embedding) == 0 {
		return nil, ErrEmptyResponse
	}
	return er.Data[0].Embedding, nil
}

func (c *Client) endpoint(path string) string {
	base := c.cfg.BaseURL
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return strings.TrimRight(base, "/") + path
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Printf("[AI] response body close error: %v", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read ai response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ai status %d: %s", resp.StatusCode, truncate(buf.String(), 512))
	}
	return buf.Bytes(), nil
}

// CleanJSON strips ```json fences and any prose around the outermost JSON
// object or array.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	open := strings.IndexAny(s, "{[")
	if open < 0 {
		return s
	}
	closer := byte('}')
	if s[open] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < open {
		return s[open:]
	}
	return s[open : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
