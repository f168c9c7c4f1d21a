package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAPIBase = "https://api.telegram.org"

	// Telegram tolerates roughly 30 messages per second per bot.
	defaultSendRate  = 20
	defaultSendBurst = 5

	// DefaultRequestTimeout bounds one Bot API call. getUpdates adds its long-poll wait on top.
	DefaultRequestTimeout = 30 * time.Second

	// ActionTyping is the chat action shown while a reply is being prepared.
	ActionTyping = "typing"
)

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     fmt.Sprintf("%s/bot%s", defaultAPIBase, token),
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(defaultSendRate), defaultSendBurst),
		timeout:    DefaultRequestTimeout,
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes
// or for a self-hosted Bot API server.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SetRequestTimeout changes the per-call deadline. Non-positive values keep the current one.
func (b *Bot) SetRequestTimeout(d time.Duration) {
	if d > 0 {
		b.timeout = d
	}
}

// SetSendRate paces outbound messages to perSecond with the given burst.
// A non-positive rate disables pacing.
func (b *Bot) SetSendRate(perSecond float64, burst int) {
	if perSecond <= 0 {
		b.limiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	if burst <= 0 {
		burst = 1
	}
	b.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SetWebhook registers the webhook URL with Telegram.
func (b *Bot) SetWebhook(ctx context.Context, webhookURL string) error {
	return b.call(ctx, "setWebhook", setWebhookRequest{URL: webhookURL, AllowedUpdates: []string{"message"}}, nil)
}

// DeleteWebhook removes the webhook so getUpdates can be used.
func (b *Bot) DeleteWebhook(ctx context.Context) error {
	return b.call(ctx, "deleteWebhook", map[string]bool{"drop_pending_updates": false}, nil)
}

// GetMe returns the bot's own user.
func (b *Bot) GetMe(ctx context.Context) (*User, error) {
	var me User
	if err := b.call(ctx, "getMe", struct{}{}, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// GetUpdates long-polls for updates after offset, waiting up to timeout seconds.
func (b *Bot) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	var updates []Update
	req := getUpdatesRequest{Offset: offset, Timeout: timeout, AllowedUpdates: []string{"message"}}
	if err := b.do(ctx, "getUpdates", req, &updates, time.Duration(timeout)*time.Second); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) (*Message, error) {
	return b.Send(ctx, SendMessageRequest{ChatID: chatID, Text: text})
}

// SendReply sends text as a reply to replyTo in chatID.
func (b *Bot) SendReply(ctx context.Context, chatID, replyTo int64, text string) (*Message, error) {
	return b.Send(ctx, SendMessageRequest{ChatID: chatID, Text: text, ReplyToMessageID: replyTo})
}

// Send delivers a sendMessage request, waiting for the outbound rate limiter first.
func (b *Bot) Send(ctx context.Context, req SendMessageRequest) (*Message, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("telegram sendMessage: rate limiter: %w", err)
	}

	var sent Message
	if err := b.call(ctx, "sendMessage", req, &sent); err != nil {
		return nil, err
	}
	return &sent, nil
}

// SendChatAction shows a chat action such as ActionTyping.
func (b *Bot) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return b.call(ctx, "sendChatAction", chatActionRequest{ChatID: chatID, Action: action}, nil)
}

// call POSTs payload to method and decodes the result into out when out is non-nil.
func (b *Bot) call(ctx context.Context, method string, payload any, out any) error {
	return b.do(ctx, method, payload, out, 0)
}

// do is call with the deadline extended by wait, for requests the server holds open.
func (b *Bot) do(ctx context.Context, method string, payload any, out any, wait time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout+wait)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", b.apiURL, method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return fmt.Errorf("telegram %s API error %d: %s", method, resp.StatusCode, string(raw))
	}
	if !apiResp.OK {
		return &APIError{Method: method, Code: apiResp.ErrorCode, Description: apiResp.Description}
	}

	if out != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// Ping measures one getMe round trip.
func (b *Bot) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := b.GetMe(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
