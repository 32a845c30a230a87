package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 20 * time.Second

// Client talks to the Telegram Bot HTTP API. Requests carry the bot token in
// the URL path and respect a bounded timeout.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a Telegram API client. The token may be empty; calls then
// degrade to logged no-ops instead of failing.
func NewClient(token, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		token:   strings.TrimSpace(token),
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// SendMessage delivers a text notification to a chat. Delivery is
// best-effort: a missing token, a transport error, a non-2xx status, or an
// API-level ok:false are all logged and swallowed, never returned to the
// caller, and never retried.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) {
	if c.token == "" {
		c.logger.Error("telegram token not configured, message not sent")
		return
	}

	payload, _ := json.Marshal(map[string]any{"chat_id": chatID, "text": text})
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("failed to build sendMessage request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("sendMessage call failed", zap.Error(err))
		return
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		c.logger.Error("sendMessage returned non-success status",
			zap.Int("status", res.StatusCode),
			zap.ByteString("body", body),
		)
		return
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("failed to decode sendMessage response", zap.Error(err))
		return
	}
	if !parsed.OK {
		c.logger.Error("telegram api reported an error", zap.String("description", parsed.Description))
		return
	}

	c.logger.Info("telegram message sent", zap.Int("status", res.StatusCode))
}

// SetWebhook registers the public webhook URL with the Telegram API.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string, dropPendingUpdates bool) error {
	payload := map[string]any{
		"url":                  webhookURL,
		"drop_pending_updates": dropPendingUpdates,
	}
	if secret != "" {
		payload["secret_token"] = secret
	}
	_, err := c.call(ctx, "setWebhook", payload)
	return err
}

// DeleteWebhook unregisters the webhook.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	_, err := c.call(ctx, "deleteWebhook", map[string]any{})
	return err
}

// WebhookInfo describes the currently registered webhook.
type WebhookInfo struct {
	URL             string `json:"url"`
	PendingUpdates  int    `json:"pending_update_count"`
	LastErrorOn     int64  `json:"last_error_date"`
	LastErrorDetail string `json:"last_error_message"`
}

// GetWebhookInfo fetches the webhook registration state.
func (c *Client) GetWebhookInfo(ctx context.Context) (WebhookInfo, error) {
	result, err := c.call(ctx, "getWebhookInfo", map[string]any{})
	if err != nil {
		return WebhookInfo{}, err
	}
	var info WebhookInfo
	if err := json.Unmarshal(result, &info); err != nil {
		return WebhookInfo{}, fmt.Errorf("decode getWebhookInfo result: %w", err)
	}
	return info, nil
}

func (c *Client) call(ctx context.Context, method string, payload map[string]any) (json.RawMessage, error) {
	if c.token == "" {
		return nil, fmt.Errorf("telegram token not configured")
	}

	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer res.Body.Close()

	data, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("%s status=%d body=%s", method, res.StatusCode, string(data))
	}

	var parsed apiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("%s api error: %s", method, parsed.Description)
	}
	return parsed.Result, nil
}
