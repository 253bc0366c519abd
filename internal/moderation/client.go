package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/postboard/postboard/pkg/config"
	"github.com/postboard/postboard/pkg/logging"
	"github.com/postboard/postboard/pkg/telemetry"
)

// Client calls an external text-classification service to judge
// whether content contains prohibited language, and the same service
// to generate auto-reply bodies.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
	model      string
	logger     *zap.Logger
}

// New creates a new moderation client
func New(cfg *config.ModerationConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("moderation_url is required")
	}

	logger := logging.GetLogger().With(zap.String("component", "moderation-client"))

	client := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		token:      cfg.Token,
		model:      cfg.Model,
		logger:     logger,
	}

	logger.Info("Moderation client initialized", zap.String("url", cfg.URL))

	return client, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Check classifies the combined title and text and reports whether the
// classifier judged the content inappropriate.
func (c *Client) Check(ctx context.Context, title, text string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "moderation.check")
	defer span.End()

	prompt := fmt.Sprintf(
		"Are there any vulgar language, racism, or offensive expressions (all languages) "+
			"in the '%s' or in the '%s'? Answer: 'yes/no'",
		title, text,
	)

	reply, err := c.complete(ctx, prompt)
	if err != nil {
		return false, fmt.Errorf("failed to check content: %w", err)
	}

	return parseVerdict(reply), nil
}

// GenerateReply asks the service for an auto-reply body addressing the
// given comment.
func (c *Client) GenerateReply(ctx context.Context, title, text string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "moderation.generate_reply")
	defer span.End()

	prompt := fmt.Sprintf(
		"Write a short, polite reply to a blog comment titled '%s' saying: '%s'. "+
			"Answer with the reply text only.",
		title, text,
	)

	reply, err := c.complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	return strings.TrimSpace(reply), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("classifier returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// parseVerdict reads the classifier's raw yes/no reply. The comparison
// is case-insensitive and tolerates a trailing line terminator.
func parseVerdict(reply string) bool {
	normalized := strings.ToLower(strings.TrimRight(reply, " \t\r\n"))
	return normalized == "yes"
}
