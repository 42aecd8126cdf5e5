package line

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

// DefaultBaseURL is the production endpoint of the chat transport API.
const DefaultBaseURL = "https://api.line.me"

// maxTextRunes is the transport's per-message text limit, minus headroom.
const maxTextRunes = 4700

// Replier delivers replies to a reply address. The webhook layer depends on
// this interface; tests substitute a recorder.
type Replier interface {
	// ReplyText sends a plain text message.
	ReplyText(ctx context.Context, replyToken, text string) error

	// ReplyFlex sends a structured card payload.
	ReplyFlex(ctx context.Context, replyToken, altText string, contents Payload) error

	// ReplyLocationPrompt sends text with a quick-reply action asking
	// the sender to share their location.
	ReplyLocationPrompt(ctx context.Context, replyToken, text string) error
}

// Client implements Replier against the chat transport's reply API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	channelToken string
	log          *zap.Logger
}

var _ Replier = (*Client)(nil)

// NewClient creates a reply client authenticating with channelToken.
func NewClient(baseURL, channelToken string, log *zap.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		channelToken: channelToken,
		log:          log,
	}
}

// ReplyText sends one text message, truncated to the transport limit.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	return c.reply(ctx, replyToken, []Payload{{
		"type": "text",
		"text": TruncateText(text),
	}})
}

// ReplyFlex sends a flex message. When the transport rejects the payload
// the content is resent as plain text so the user still sees something.
func (c *Client) ReplyFlex(ctx context.Context, replyToken, altText string, contents Payload) error {
	err := c.reply(ctx, replyToken, []Payload{{
		"type":     "flex",
		"altText":  altText,
		"contents": contents,
	}})
	if err == nil {
		return nil
	}

	c.log.Warn("flex reply rejected, falling back to text", zap.Error(err))
	raw, _ := json.Marshal(contents)
	fallback := "プレビュー送信に失敗したのでテキストで返します：\n" + string(truncateBytes(raw, 800))
	return c.ReplyText(ctx, replyToken, fallback)
}

// ReplyLocationPrompt sends text carrying a quick-reply location action.
func (c *Client) ReplyLocationPrompt(ctx context.Context, replyToken, text string) error {
	return c.reply(ctx, replyToken, []Payload{{
		"type": "text",
		"text": TruncateText(text),
		"quickReply": Payload{
			"items": []Payload{{
				"type": "action",
				"action": Payload{
					"type":  "location",
					"label": "現在地を送る",
				},
			}},
		},
	}})
}

func (c *Client) reply(ctx context.Context, replyToken string, messages []Payload) error {
	body, err := json.Marshal(Payload{
		"replyToken": replyToken,
		"messages":   messages,
	})
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/bot/message/reply", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		c.log.Warn("reply rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncateBytes(data, 512)))
		return fmt.Errorf("reply rejected: status %d", resp.StatusCode)
	}
	return nil
}

// TruncateText caps text at the transport's per-message limit.
func TruncateText(s string) string {
	runes := []rune(s)
	if len(runes) <= maxTextRunes {
		return s
	}
	return string(runes[:maxTextRunes])
}

func truncateBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
